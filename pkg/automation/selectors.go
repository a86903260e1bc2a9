package automation

import "strings"

// selectors of the feed markup, ordered from the most specific to the loosest fallback
const (
	postSelector          = `article[data-testid="tweet"]`
	modalSelector         = `[aria-labelledby="modal-header"]`
	socialContextSelector = `[data-testid="socialContext"]`
	userNameSelector      = `[data-testid="User-Name"]`
	userNameSpanSelector  = `[data-testid="User-Name"] span`
	verifiedSelector      = `svg[aria-label="Verified account"]`
	timeSelector          = `time`
	replyControlSelector  = `[data-testid="reply"]`
	conversationSelector  = `[aria-label*="Conversation"]`
	closeSelector         = `[data-testid="app-bar-close"]`
	modalInputSelector    = `div[role="textbox"], textarea, [contenteditable="true"]`

	draftTextSpanSelector   = `span[data-text="true"]`
	draftOffsetSpanSelector = `span[data-offset-key]`
	draftContentsSelector   = `div[data-contents="true"]`
	draftBlockDivSelector   = `div[data-contents="true"] div[data-block="true"] div`
)

// skipTextAncestors mark elements that are not part of the post body
var skipTextAncestors = []string{
	`[data-testid="card.wrapper"]`,
	`[data-testid="User-Name"]`,
	`[data-testid="socialContext"]`,
}

var textSelectors = []string{
	`[data-testid="tweetText"]`,
	`div[lang]`,
	`div[data-testid="tweetText"] span`,
	`article div[dir="auto"]`,
}

var authorSelectors = []string{
	`[data-testid="User-Name"] a:nth-child(2)`,
	`[data-testid="User-Name"] a[href*="/"]`,
	`a[role="link"][href*="/"]`,
	`div[data-testid="User-Name"] > div:nth-child(2) > div:nth-child(1) > div:nth-child(1) > a:nth-child(1)`,
	`div[data-testid="User-Name"] a`,
}

var likeSelectors = []string{
	`[data-testid="like"]`,
	`[aria-label="Like"]`,
	`[aria-label="like"]`,
	`div[role="button"] svg[viewBox="0 0 24 24"][aria-hidden="true"]`,
}

var replySelectors = []string{
	`[data-testid="reply"]`,
	`[aria-label="Reply"]`,
	`[aria-label="reply"]`,
	`div[role="button"][data-testid="reply"]`,
	`div[role="button"] svg[viewBox="0 0 24 24"][aria-hidden="true"]`,
}

var editorSelectors = []string{
	// block editor
	`div.notranslate.public-DraftEditor-content[contenteditable="true"][data-testid="tweetTextarea_0"]`,
	`div.public-DraftEditor-content[contenteditable="true"][data-testid="tweetTextarea_0"]`,
	`div.public-DraftEditor-content[contenteditable="true"]`,
	`div[aria-activedescendant][aria-autocomplete="list"][aria-label="Post text"][contenteditable="true"][data-testid="tweetTextarea_0"]`,

	// generic
	`[data-testid="tweetTextarea_0"]`,
	`div[aria-label="Post text"][contenteditable="true"]`,
	`div[data-testid="tweetTextarea_0"][contenteditable="true"]`,
	`div[aria-label="Tweet text"]`,
	`div[aria-label="Post text"]`,
	`div[data-contents="true"]`,
	`div[role="textbox"][contenteditable="true"]`,
	`div[data-testid="tweetTextInput"]`,
}

var submitSelectors = []string{
	`[data-testid="tweetButton"]`,
	`div[role="button"][data-testid="tweetButtonInline"]`,
	`div[role="button"]:not([aria-disabled="true"]):not([data-testid="app-bar-close"])`,
	`div[role="button"][tabindex="0"]`,
}

// followSelectors returns the follow control chain for the author
func followSelectors(author string) []string {
	return []string{
		`[data-testid="followButton"]`,
		`[aria-label="Follow @` + strings.ReplaceAll(author, `"`, `\"`) + `"]`,
		`[aria-label="follow"]`,
		`[aria-label="Follow"]`,
		`div[role="button"]:not([data-testid="like"]):not([data-testid="reply"])`,
	}
}

// skippedViews are url fragments of views with a different markup
var skippedViews = []string{"/replies", "/with_replies", "/status/"}
