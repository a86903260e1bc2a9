package automation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/engager/pkg/domain"
	"github.com/umputun/engager/pkg/snapshot"
)

func editorPage(t *testing.T, markup string) (*snapshot.Page, domain.Node) {
	t.Helper()
	page, err := snapshot.NewFromString(`<html><body><div id="dialog">`+markup+`</div></body></html>`, "https://x.com/home")
	require.NoError(t, err)
	nodes, err := page.Query(context.Background(), "", `#dialog > *`)
	require.NoError(t, err)
	require.NotEmpty(t, nodes)
	return page, nodes[0]
}

func TestClassifyEditor(t *testing.T) {
	tbl := []struct {
		node domain.Node
		want editorKind
	}{
		{domain.Node{Tag: "div", Attrs: map[string]string{"class": "notranslate public-DraftEditor-content"}}, editorBlock},
		{domain.Node{Tag: "div", Attrs: map[string]string{"data-testid": "tweetTextarea_0"}}, editorBlock},
		{domain.Node{Tag: "div", Attrs: map[string]string{"contenteditable": "true"}}, editorContentEditable},
		{domain.Node{Tag: "textarea"}, editorFormControl},
		{domain.Node{Tag: "input"}, editorFormControl},
		{domain.Node{Tag: "div", Attrs: map[string]string{"data-testid": "tweetTextInput"}}, editorOther},
	}
	for _, tt := range tbl {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, classifyEditor(tt.node))
		})
	}
}

func TestFillEditor_BlockWithTextSpan(t *testing.T) {
	page, editor := editorPage(t, `<div class="public-DraftEditor-content" contenteditable="true">`+
		`<div data-contents="true"><div data-block="true"><div><span data-offset-key="k"><span data-text="true">old</span></span>`+
		`</div></div></div></div>`)

	require.NoError(t, FillEditor(context.Background(), page, editor, "Nice post!", 0))

	spans, err := page.Query(context.Background(), editor.Ref, `span[data-text="true"]`)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, "Nice post!", spans[0].Text)
	assert.NotContains(t, eventTypes(page), "insert", "span fill worked, no text insertion")
	assert.Equal(t, 1, countEvents(page, "fill"), "no typing fallback")
}

func TestFillEditor_BlockBuildsStructure(t *testing.T) {
	page, editor := editorPage(t, `<div class="public-DraftEditor-content" contenteditable="true"></div>`)

	require.NoError(t, FillEditor(context.Background(), page, editor, "a < b", 0))

	spans, err := page.Query(context.Background(), editor.Ref, `div[data-contents="true"] span[data-text="true"]`)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, "a < b", spans[0].Text, "text is escaped into markup, not parsed")
}

func TestFillEditor_BlockInsertFallback(t *testing.T) {
	snap, editor := editorPage(t, `<div data-testid="tweetTextarea_0"></div>`)
	page := &flakyPage{Page: snap, failFills: 1}

	require.NoError(t, FillEditor(context.Background(), page, editor, "hello", 0))

	content, err := snap.Content(context.Background(), editor.Ref)
	require.NoError(t, err)
	assert.Equal(t, "hello", strings.TrimSpace(content.Text))
	assert.Contains(t, eventTypes(snap), "insert")
}

func TestFillEditor_ContentEditable(t *testing.T) {
	page, editor := editorPage(t, `<div contenteditable="true" role="textbox"></div>`)

	require.NoError(t, FillEditor(context.Background(), page, editor, "x & y", 0))

	content, err := page.Content(context.Background(), editor.Ref)
	require.NoError(t, err)
	assert.Equal(t, "x &amp; y", content.HTML)
	assert.Equal(t, "x & y", content.Text)
	types := eventTypes(page)
	assert.Contains(t, types, "input")
	assert.Contains(t, types, "change")
	assert.Contains(t, types, "focus")
}

func TestFillEditor_FormControl(t *testing.T) {
	page, editor := editorPage(t, `<textarea></textarea>`)

	require.NoError(t, FillEditor(context.Background(), page, editor, "typed", 0))

	content, err := page.Content(context.Background(), editor.Ref)
	require.NoError(t, err)
	assert.Equal(t, "typed", content.Value)
}

func TestFillEditor_Other(t *testing.T) {
	page, editor := editorPage(t, `<div data-testid="tweetTextInput"></div>`)

	require.NoError(t, FillEditor(context.Background(), page, editor, "hi", 0))

	content, err := page.Content(context.Background(), editor.Ref)
	require.NoError(t, err)
	assert.Equal(t, "hi", content.Value)
	assert.Equal(t, "hi", content.HTML)
	for _, e := range []string{"input", "change", "keydown", "keyup", "keypress"} {
		assert.Contains(t, eventTypes(page), e)
	}
}

func TestFillEditor_TypingFallback(t *testing.T) {
	snap, editor := editorPage(t, `<div contenteditable="true"></div>`)
	page := &flakyPage{Page: snap, failFills: 1}

	require.NoError(t, FillEditor(context.Background(), page, editor, "héllo", 0))

	content, err := snap.Content(context.Background(), editor.Ref)
	require.NoError(t, err)
	assert.Equal(t, "héllo", content.Text)
	// clear plus one fill per rune
	assert.Equal(t, 6, countEvents(snap, "fill"))
}

func TestFillEditor_FocusError(t *testing.T) {
	snap, editor := editorPage(t, `<textarea></textarea>`)
	page := &flakyPage{Page: snap, failFocus: true}

	err := FillEditor(context.Background(), page, editor, "text", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "focus editor")
}

func TestBlockMarkup(t *testing.T) {
	assert.Equal(t, `<div data-block="true"><div class="public-DraftStyleDefault-block public-DraftStyleDefault-ltr">`+
		`<span data-text="true">&lt;b&gt;</span></div></div>`, blockMarkup("<b>"))
}

// flakyPage rejects the first failFills content writes
type flakyPage struct {
	*snapshot.Page
	failFills int
	failFocus bool
}

func (p *flakyPage) SetContent(ctx context.Context, ref string, mode domain.FillMode, value string) error {
	if p.failFills > 0 {
		p.failFills--
		return errors.New("fill rejected")
	}
	return p.Page.SetContent(ctx, ref, mode, value)
}

func (p *flakyPage) Focus(ctx context.Context, ref string) error {
	if p.failFocus {
		return errors.New("not focusable")
	}
	return p.Page.Focus(ctx, ref)
}

func eventTypes(page *snapshot.Page) []string {
	events := page.Events()
	res := make([]string, 0, len(events))
	for _, e := range events {
		res = append(res, e.Type)
	}
	return res
}

func countEvents(page *snapshot.Page, typ string) int {
	res := 0
	for _, e := range page.Events() {
		if e.Type == typ {
			res++
		}
	}
	return res
}
