// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package search

import (
	"sync"
	"unicode/utf8"
)

// NameMatcher finds indexed character names embedded anywhere in a
// free-text query using the Aho-Corasick algorithm: all names are
// matched in a single O(n + z) pass over the query instead of one
// scan per name. Substring matching is deliberate; CJK queries carry
// no word boundaries ("피카츄색칠" contains "피카츄").
type NameMatcher struct {
	mu      sync.RWMutex
	root    *matcherNode
	names   []namePattern
	indexOf map[string]int // name -> index into names
	built   bool
}

// matcherNode is a node in the Aho-Corasick automaton.
type matcherNode struct {
	children map[rune]*matcherNode
	failure  *matcherNode
	output   []int // indices of names ending at this node
}

type namePattern struct {
	name string
	ids  []string
}

// Mention is an indexed name found inside a query.
type Mention struct {
	Name     string
	IDs      []string
	Position int // rune-indexed start offset in the query
}

// NewNameMatcher creates an empty matcher.
func NewNameMatcher() *NameMatcher {
	return &NameMatcher{
		root:    newMatcherNode(),
		indexOf: make(map[string]int),
	}
}

func newMatcherNode() *matcherNode {
	return &matcherNode{children: make(map[rune]*matcherNode)}
}

// Add registers a name for the given character id. Names are
// normalized the same way the trie normalizes them, so both
// structures index an identical vocabulary. Must be called before
// Build.
func (m *NameMatcher) Add(name, characterID string) {
	key := normalizeName(name)
	if key == "" || characterID == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.built = false
	if i, ok := m.indexOf[key]; ok {
		if !containsID(m.names[i].ids, characterID) {
			m.names[i].ids = append(m.names[i].ids, characterID)
		}
		return
	}
	m.indexOf[key] = len(m.names)
	m.names = append(m.names, namePattern{name: key, ids: []string{characterID}})
}

// Build constructs the automaton. Must be called after the last Add
// and before Find.
func (m *NameMatcher) Build() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.built {
		return
	}

	m.root = newMatcherNode()
	for i, p := range m.names {
		m.insert(i, p.name)
	}
	m.buildFailureLinks()
	m.built = true
}

func (m *NameMatcher) insert(index int, name string) {
	node := m.root
	for _, ch := range name {
		if node.children[ch] == nil {
			node.children[ch] = newMatcherNode()
		}
		node = node.children[ch]
	}
	node.output = append(node.output, index)
}

// buildFailureLinks wires suffix fallbacks with a BFS from the root.
func (m *NameMatcher) buildFailureLinks() {
	queue := make([]*matcherNode, 0)
	for _, child := range m.root.children {
		child.failure = m.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for ch, child := range current.children {
			queue = append(queue, child)

			fail := current.failure
			for fail != nil && fail.children[ch] == nil {
				fail = fail.failure
			}
			if fail == nil {
				child.failure = m.root
			} else {
				child.failure = fail.children[ch]
				// A match here is also a match for every proper
				// suffix name.
				child.output = append(child.output, child.failure.output...)
			}
		}
	}
}

// Find returns every indexed name occurring in the text. The text is
// normalized before matching; positions are rune offsets into the
// normalized text.
func (m *NameMatcher) Find(text string) []Mention {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.built || len(m.names) == 0 {
		return nil
	}

	var mentions []Mention
	node := m.root
	pos := 0
	for _, ch := range normalizeName(text) {
		for node != nil && node.children[ch] == nil {
			node = node.failure
		}
		if node == nil {
			node = m.root
			pos++
			continue
		}
		node = node.children[ch]

		for _, nameIdx := range node.output {
			p := m.names[nameIdx]
			ids := make([]string, len(p.ids))
			copy(ids, p.ids)
			mentions = append(mentions, Mention{
				Name:     p.name,
				IDs:      ids,
				Position: pos - utf8.RuneCountInString(p.name) + 1,
			})
		}
		pos++
	}
	return mentions
}

// Contains reports whether any indexed name occurs in the text.
func (m *NameMatcher) Contains(text string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.built || len(m.names) == 0 {
		return false
	}

	node := m.root
	for _, ch := range normalizeName(text) {
		for node != nil && node.children[ch] == nil {
			node = node.failure
		}
		if node == nil {
			node = m.root
			continue
		}
		node = node.children[ch]
		if len(node.output) > 0 {
			return true
		}
	}
	return false
}

// NameCount returns the number of distinct names in the matcher.
func (m *NameMatcher) NameCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.names)
}
