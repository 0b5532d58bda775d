package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gDto "unires/shared/dto"
)

func TestListQuery(t *testing.T) {
	recipients := []string{"user-1", "role:admin"}

	t.Run("second page", func(t *testing.T) {
		query, args, err := listQuery([]string{"id", "subject"}, recipients, gDto.QueryParams{Page: 2, Limit: 10})
		require.NoError(t, err)

		assert.Equal(t, "SELECT id, subject FROM notifications WHERE recipient IN ($1,$2) ORDER BY created_at DESC, id LIMIT 10 OFFSET 10", query)
		assert.Equal(t, []any{"user-1", "role:admin"}, args)
	})

	t.Run("unbounded", func(t *testing.T) {
		query, _, err := listQuery([]string{"id"}, recipients, gDto.QueryParams{})
		require.NoError(t, err)

		assert.Equal(t, "SELECT id FROM notifications WHERE recipient IN ($1,$2) ORDER BY created_at DESC, id", query)
	})
}

func TestMarkReadQuery(t *testing.T) {
	at := time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)

	query, args, err := markReadQuery("n-1", []string{"user-1"}, at)
	require.NoError(t, err)

	assert.Equal(t, "UPDATE notifications SET read_at = $1 WHERE id = $2 AND recipient IN ($3) AND read_at IS NULL", query)
	assert.Equal(t, []any{at, "n-1", "user-1"}, args)
}
