// Package router picks the deterministic reply used when the generative
// backend is skipped or fails.
package router

import (
	"strings"

	"jce-assistant/internal/knowledge"
)

type State int

const (
	StateResolutionHit State = iota + 1
	StateKeywordHit
	StateGenericFallback
)

func (s State) String() string {
	switch s {
	case StateResolutionHit:
		return "resolution"
	case StateKeywordHit:
		return "keyword"
	case StateGenericFallback:
		return "generic"
	default:
		return "unknown"
	}
}

// Reply is the routed answer. Topic is set for keyword hits and Title for
// resolution hits.
type Reply struct {
	State State
	Text  string
	Topic string
	Title string
}

type Router struct {
	store  *knowledge.Store
	topics *Topics
}

// New builds a router over store. A nil store disables document answers and a
// nil table selects DefaultTopics.
func New(store *knowledge.Store, topics *Topics) *Router {
	if topics == nil {
		topics = DefaultTopics()
	}
	return &Router{store: store, topics: topics}
}

// Route never fails: it ends in the generic answer when nothing else matches.
func (r *Router) Route(utterance string) Reply {
	lower := strings.ToLower(utterance)

	if item, ok := r.documentFor(strings.Fields(lower)); ok {
		return Reply{
			State: StateResolutionHit,
			Text:  knowledge.FormatAnswer(item),
			Title: item.Title,
		}
	}

	if topic, ok := r.topics.match(lower); ok {
		return Reply{State: StateKeywordHit, Text: topic.Answer, Topic: topic.Name}
	}

	return Reply{State: StateGenericFallback, Text: r.topics.Generic}
}

// documentFor returns the first stored entry whose text holds any of words.
func (r *Router) documentFor(words []string) (knowledge.Item, bool) {
	if r.store == nil || len(words) == 0 {
		return knowledge.Item{}, false
	}
	for _, item := range r.store.All() {
		text := strings.ToLower(item.Entry.Text)
		for _, w := range words {
			if strings.Contains(text, w) {
				return item, true
			}
		}
	}
	return knowledge.Item{}, false
}
