// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package search

import (
	"sort"
	"strings"
	"sync"
)

// trieNode represents a node in the name trie.
type trieNode struct {
	children map[rune]*trieNode
	isEnd    bool
	name     string   // the complete indexed name (if isEnd)
	ids      []string // character ids that carry this name
}

// Trie is a thread-safe prefix tree over character names. Each
// complete name maps to the set of character ids that carry it, since
// an alias like "dragon" can belong to more than one character.
// Operations are O(m) in the length of the query string.
type Trie struct {
	mu   sync.RWMutex
	root *trieNode
	size int // number of distinct names
}

// PrefixMatch is a name matched by prefix with its character ids.
type PrefixMatch struct {
	Name string
	IDs  []string
}

// NewTrie creates an empty name trie.
func NewTrie() *Trie {
	return &Trie{root: newTrieNode()}
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

// normalizeName lowercases and trims a name or query. Searchable
// names are lowercased at ingest, but canonical display names and
// user queries are not.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Insert adds a name for the given character id. Returns true if the
// name was not indexed before. Inserting the same name for the same
// character again is a no-op.
func (t *Trie) Insert(name, characterID string) bool {
	key := normalizeName(name)
	if key == "" || characterID == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	node := t.root
	for _, ch := range key {
		if node.children[ch] == nil {
			node.children[ch] = newTrieNode()
		}
		node = node.children[ch]
	}

	isNew := !node.isEnd
	node.isEnd = true
	node.name = key

	if !containsID(node.ids, characterID) {
		node.ids = append(node.ids, characterID)
	}
	if isNew {
		t.size++
	}
	return isNew
}

// Lookup returns the character ids for an exactly matching name.
func (t *Trie) Lookup(name string) ([]string, bool) {
	key := normalizeName(name)
	if key == "" {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	node := t.walk(key)
	if node == nil || !node.isEnd {
		return nil, false
	}
	ids := make([]string, len(node.ids))
	copy(ids, node.ids)
	return ids, true
}

// HasPrefix reports whether any indexed name starts with the prefix.
func (t *Trie) HasPrefix(prefix string) bool {
	key := normalizeName(prefix)
	if key == "" {
		return t.Size() > 0
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.walk(key) != nil
}

// WithPrefix returns every indexed name starting with the prefix,
// sorted alphabetically. A limit <= 0 returns all matches; ranking by
// popularity happens in the index, which knows the characters.
func (t *Trie) WithPrefix(prefix string, limit int) []PrefixMatch {
	key := normalizeName(prefix)
	if key == "" {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	node := t.walk(key)
	if node == nil {
		return nil
	}

	var matches []PrefixMatch
	collectNames(node, &matches)

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Name < matches[j].Name
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Size returns the number of distinct names in the trie.
func (t *Trie) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

// walk follows the path for key and returns the final node, or nil
// when the path does not exist. Callers hold the lock.
func (t *Trie) walk(key string) *trieNode {
	node := t.root
	for _, ch := range key {
		if node.children[ch] == nil {
			return nil
		}
		node = node.children[ch]
	}
	return node
}

// collectNames gathers all complete names under node.
func collectNames(node *trieNode, matches *[]PrefixMatch) {
	if node == nil {
		return
	}
	if node.isEnd {
		ids := make([]string, len(node.ids))
		copy(ids, node.ids)
		*matches = append(*matches, PrefixMatch{Name: node.name, IDs: ids})
	}
	for _, child := range node.children {
		collectNames(child, matches)
	}
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
