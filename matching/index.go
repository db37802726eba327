package matching

import (
	"sync"

	"github.com/albertle/networkx/models"
)

// TagIndex is an inverted index from tag to the users holding that tag.
// The owning user's role is stored alongside each entry so candidate
// discovery can restrict by role without consulting the profile store.
//
// Invariant: a username appears under a tag if and only if that user's
// tag set contains the tag. Mutations run inside the same per-user
// scope as the profile store update, keeping the two consistent.
type TagIndex struct {
	mu    sync.RWMutex
	byTag map[string]map[string]models.Role
}

// NewTagIndex creates an empty index.
func NewTagIndex() *TagIndex {
	return &TagIndex{byTag: make(map[string]map[string]models.Role)}
}

// Add records that username holds tag. Adding an already-present
// entry is a no-op.
func (i *TagIndex) Add(username string, role models.Role, tag string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	bucket, ok := i.byTag[tag]
	if !ok {
		bucket = make(map[string]models.Role)
		i.byTag[tag] = bucket
	}
	bucket[username] = role
}

// Remove drops username from tag's bucket. Removing an absent entry
// is a no-op. Empty buckets are deleted so the index does not grow
// with dead tags.
func (i *TagIndex) Remove(username, tag string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	bucket, ok := i.byTag[tag]
	if !ok {
		return
	}
	delete(bucket, username)
	if len(bucket) == 0 {
		delete(i.byTag, tag)
	}
}

// CandidatesForTags returns the union of usernames under the given
// tags, restricted to role and excluding the requester. Union rather
// than intersection: discovery favors breadth, and the scoring engine
// supplies the precision.
func (i *TagIndex) CandidatesForTags(tags []string, role models.Role, exclude string) []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, tag := range tags {
		for name, r := range i.byTag[tag] {
			if name == exclude || r != role {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// Contains reports whether username is indexed under tag.
func (i *TagIndex) Contains(username, tag string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()

	_, ok := i.byTag[tag][username]
	return ok
}

// TagCount returns the number of distinct tags currently indexed.
func (i *TagIndex) TagCount() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.byTag)
}
