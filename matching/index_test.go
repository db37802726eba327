package matching

import (
	"testing"

	"github.com/albertle/networkx/models"
	"github.com/stretchr/testify/assert"
)

func TestIndexAddAndRemove(t *testing.T) {
	idx := NewTagIndex()

	idx.Add("alice", models.RoleCreator, "gaming")
	assert.True(t, idx.Contains("alice", "gaming"))

	candidates := idx.CandidatesForTags([]string{"gaming"}, models.RoleCreator, "")
	assert.Equal(t, []string{"alice"}, candidates)

	idx.Remove("alice", "gaming")
	assert.False(t, idx.Contains("alice", "gaming"))
	assert.Empty(t, idx.CandidatesForTags([]string{"gaming"}, models.RoleCreator, ""))
}

func TestIndexAddIdempotent(t *testing.T) {
	idx := NewTagIndex()

	idx.Add("alice", models.RoleCreator, "gaming")
	idx.Add("alice", models.RoleCreator, "gaming")

	assert.Len(t, idx.CandidatesForTags([]string{"gaming"}, models.RoleCreator, ""), 1)
	assert.Equal(t, 1, idx.TagCount())
}

func TestIndexRemoveAbsentIsNoop(t *testing.T) {
	idx := NewTagIndex()

	idx.Remove("alice", "gaming")
	idx.Add("alice", models.RoleCreator, "gaming")
	idx.Remove("alice", "fashion")

	assert.True(t, idx.Contains("alice", "gaming"))
}

func TestCandidatesUnionNotIntersection(t *testing.T) {
	idx := NewTagIndex()

	idx.Add("alice", models.RoleCreator, "gaming")
	idx.Add("bob", models.RoleCreator, "fashion")
	idx.Add("carol", models.RoleCreator, "gaming")
	idx.Add("carol", models.RoleCreator, "fashion")

	got := idx.CandidatesForTags([]string{"gaming", "fashion"}, models.RoleCreator, "")
	assert.ElementsMatch(t, []string{"alice", "bob", "carol"}, got)
}

func TestCandidatesRestrictedByRoleAndRequester(t *testing.T) {
	idx := NewTagIndex()

	idx.Add("alice", models.RoleCreator, "gaming")
	idx.Add("acme", models.RoleSponsor, "gaming")

	got := idx.CandidatesForTags([]string{"gaming"}, models.RoleSponsor, "alice")
	assert.Equal(t, []string{"acme"}, got)

	got = idx.CandidatesForTags([]string{"gaming"}, models.RoleCreator, "alice")
	assert.Empty(t, got)
}

func TestCandidatesDeduplicatedAcrossTags(t *testing.T) {
	idx := NewTagIndex()

	idx.Add("carol", models.RoleCreator, "gaming")
	idx.Add("carol", models.RoleCreator, "fashion")

	got := idx.CandidatesForTags([]string{"gaming", "fashion"}, models.RoleCreator, "")
	assert.Equal(t, []string{"carol"}, got)
}

func TestEmptyBucketsAreDropped(t *testing.T) {
	idx := NewTagIndex()

	idx.Add("alice", models.RoleCreator, "gaming")
	idx.Remove("alice", "gaming")

	assert.Zero(t, idx.TagCount())
}
