package browser

// helpers is evaluated before every snippet, it installs the ref registry once per document
const helpers = `window.__engager = window.__engager || {
  next: 0,
  ref(el) {
    if (!el.dataset.engagerRef) el.dataset.engagerRef = 'e' + (++this.next);
    return el.dataset.engagerRef;
  },
  el(ref) {
    const el = document.querySelector('[data-engager-ref="' + ref + '"]');
    if (!el) throw new Error('element ' + ref + ' is detached');
    return el;
  },
  scope(ref) { return ref ? this.el(ref) : document; },
  describe(el) {
    const attrs = {};
    for (const a of el.attributes) attrs[a.name] = a.value;
    return {ref: this.ref(el), tag: el.tagName.toLowerCase(), text: el.textContent || '', attrs: attrs};
  },
};`

const (
	locationJS = `() => ({url: location.href, title: document.title})`

	queryJS = `(scope, sel) => Array.from(window.__engager.scope(scope).querySelectorAll(sel)).map(el => window.__engager.describe(el))`

	closestJS = `(ref, sel) => {
  const found = window.__engager.el(ref).closest(sel);
  return found ? {found: true, node: window.__engager.describe(found)} : {found: false};
}`

	clickJS = `(ref) => { window.__engager.el(ref).click(); return true; }`

	scrollJS = `(ref) => { window.__engager.el(ref).scrollIntoView({behavior: 'smooth', block: 'center'}); return true; }`

	focusJS = `(ref) => { window.__engager.el(ref).focus(); return true; }`

	setContentJS = `(ref, mode, value) => {
  const el = window.__engager.el(ref);
  if (mode === 'text') el.textContent = value;
  else if (mode === 'html') el.innerHTML = value;
  else el.value = value;
  return true;
}`

	dispatchJS = `(ref, events) => {
  const el = window.__engager.el(ref);
  for (const type of events) {
    const ev = type.startsWith('key') ? new KeyboardEvent(type, {bubbles: true}) : new Event(type, {bubbles: true});
    el.dispatchEvent(ev);
  }
  return true;
}`

	contentJS = `(ref) => {
  const el = window.__engager.el(ref);
  return {value: typeof el.value === 'string' ? el.value : '', html: el.innerHTML, text: el.textContent || ''};
}`

	observeJS = `(binding) => {
  if (window.__engagerObserver || !document.body) return !!window.__engagerObserver;
  window.__engagerObserver = new MutationObserver(() => window[binding]('mutation'));
  window.__engagerObserver.observe(document.body, {childList: true, subtree: true});
  return true;
}`

	toastJS = `(title, message) => {
  const box = document.createElement('div');
  Object.assign(box.style, {position: 'fixed', top: '20px', right: '20px', backgroundColor: '#f8d7da', color: '#721c24',
    padding: '15px', borderRadius: '5px', boxShadow: '0 4px 8px rgba(0,0,0,0.1)', zIndex: '10000', maxWidth: '300px'});
  const h = document.createElement('h3');
  h.style.margin = '0 0 10px 0';
  h.textContent = title;
  const p = document.createElement('p');
  p.style.margin = '0';
  p.textContent = message;
  const close = document.createElement('button');
  close.textContent = '×';
  Object.assign(close.style, {position: 'absolute', top: '5px', right: '10px', background: 'none', border: 'none',
    fontSize: '20px', cursor: 'pointer', color: '#721c24'});
  close.onclick = () => box.remove();
  box.append(h, p, close);
  document.body.appendChild(box);
  setTimeout(() => box.remove(), 10000);
  return true;
}`
)
