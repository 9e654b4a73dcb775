package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartitionName(t *testing.T) {
	t.Run("lowercases and replaces spaces", func(t *testing.T) {
		require.Equal(t, "org_acme", PartitionName("Acme"))
		require.Equal(t, "org_acme_corp", PartitionName("Acme Corp"))
	})

	t.Run("drops unsafe characters", func(t *testing.T) {
		require.Equal(t, "org_acme_inc", PartitionName("Acme, Inc"))
		require.Equal(t, "org_acme", PartitionName("ACME!"))
	})

	t.Run("deterministic", func(t *testing.T) {
		require.Equal(t, PartitionName("Acme Corp"), PartitionName("Acme Corp"))
	})
}
