package server

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/engager/pkg/domain"
)

const defaultRSSLimit = 100

// rss is the root RSS 2.0 element
type rss struct {
	XMLName xml.Name    `xml:"rss"`
	Version string      `xml:"version,attr"`
	Atom    string      `xml:"xmlns:atom,attr"`
	Channel *rssChannel `xml:"channel"`
}

type rssChannel struct {
	XMLName       xml.Name   `xml:"channel"`
	Title         string     `xml:"title"`
	Link          string     `xml:"link"`
	Description   string     `xml:"description"`
	AtomLink      *atomLink  `xml:"http://www.w3.org/2005/Atom link"`
	LastBuildDate string     `xml:"lastBuildDate"`
	Items         []*rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description string `xml:"description"`
	Author      string `xml:"author,omitempty"`
	PubDate     string `xml:"pubDate"`
	Category    string `xml:"category"`
}

// rssHistoryHandler serves sent replies as RSS 2.0 feed
func (s *Server) rssHistoryHandler(w http.ResponseWriter, r *http.Request) {
	actions, err := s.journal.Recent(r.Context(), domain.ActionReply, defaultRSSLimit)
	if err != nil {
		log.Printf("[ERROR] failed to get replies for RSS: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	feed, err := s.generateRSS(actions)
	if err != nil {
		log.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(feed)); err != nil {
		log.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}

// generateRSS makes RSS 2.0 document of reply actions, newest first as given
func (s *Server) generateRSS(actions []domain.Action) (string, error) {
	items := make([]*rssItem, 0, len(actions))
	for _, a := range actions {
		author := a.Author
		if author == "" {
			author = "unknown"
		}
		items = append(items, &rssItem{
			Title:       fmt.Sprintf("Reply to @%s", author),
			Link:        fmt.Sprintf("https://x.com/%s", author),
			GUID:        fmt.Sprintf("%s/rss/history/%d", s.baseURL, a.ID),
			Description: a.Text,
			Author:      author,
			PubDate:     a.CreatedAt.Format(time.RFC1123Z),
			Category:    string(a.Kind),
		})
	}

	feed := &rss{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &rssChannel{
			Title:         "Engager - Replies",
			Link:          s.baseURL + "/",
			Description:   "Replies posted by engager",
			AtomLink:      &atomLink{Href: s.baseURL + "/rss/history", Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: time.Now().Format(time.RFC1123Z),
			Items:         items,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}
