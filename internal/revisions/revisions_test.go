package revisions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/site/internal/content"
)

func TestItemHistoryLifecycle(t *testing.T) {
	archive := New(t.TempDir())
	item := content.Item{ID: "item-1", Slug: "first", Title: content.Str("First"), Tags: []string{}}

	created, err := archive.Record(item, "Create content", "admin")
	require.NoError(t, err)
	require.Len(t, created.Hash, 7)

	item.Title = content.Str("First, revised")
	updated, err := archive.Record(item, "Update content", "admin")
	require.NoError(t, err)
	assert.NotEqual(t, created.Hash, updated.Hash)

	history, err := archive.History("item-1", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Update content", strings.TrimSpace(history[0].Message))
	assert.Equal(t, "Create content", strings.TrimSpace(history[1].Message))

	old, err := archive.At("item-1", created.Hash)
	require.NoError(t, err)
	assert.Equal(t, "First", *old.Title)

	limited, err := archive.History("item-1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecordUnchangedItemDoesNotCommit(t *testing.T) {
	archive := New(t.TempDir())
	item := content.Item{ID: "same", Slug: "same", Tags: []string{}}

	first, err := archive.Record(item, "Create content", "admin")
	require.NoError(t, err)
	second, err := archive.Record(item, "Update content", "admin")
	require.NoError(t, err)

	assert.Equal(t, first.Hash, second.Hash)
	history, err := archive.History("same", 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRecordDeletion(t *testing.T) {
	archive := New(t.TempDir())
	_, err := archive.Record(content.Item{ID: "gone", Slug: "gone", Tags: []string{}}, "Create content", "admin")
	require.NoError(t, err)

	rev, err := archive.RecordDeletion("gone", "admin")
	require.NoError(t, err)
	assert.Equal(t, "Delete content", strings.TrimSpace(rev.Message))

	_, err = archive.At("gone", rev.Hash)
	assert.ErrorIs(t, err, ErrItemDeleted)

	history, err := archive.History("gone", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	before, err := archive.At("gone", history[1].Hash)
	require.NoError(t, err)
	assert.Equal(t, "gone", before.Slug)

	_, err = archive.RecordDeletion("never-existed", "admin")
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestHistoryOfUnknownItemIsEmpty(t *testing.T) {
	history, err := New(t.TempDir()).History("nope", 10)

	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestUnsafeIDsAreHashed(t *testing.T) {
	dir := t.TempDir()
	archive := New(dir)

	_, err := archive.Record(content.Item{ID: "../escape", Slug: "x", Tags: []string{}}, "Create content", "admin")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(filepath.Dir(dir), "escape"))
	assert.True(t, os.IsNotExist(statErr))
	assert.True(t, strings.HasPrefix(filepath.Base(archive.repoPath("../escape")), "x-"))
}

func TestDiff(t *testing.T) {
	from := content.Item{Slug: "a", Title: content.Str("Old"), Tags: []string{"x"}}
	to := content.Item{Slug: "a", Title: content.Str("New"), Tags: []string{"x", "y"}, Featured: true}

	changes := Diff(from, to)

	assert.Equal(t, []FieldChange{
		{Field: "title", Before: "Old", After: "New"},
		{Field: "tags", Before: `["x"]`, After: `["x","y"]`},
		{Field: "featured", Before: "false", After: "true"},
	}, changes)
	assert.Empty(t, Diff(from, from))
}
