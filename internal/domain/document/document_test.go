package document

import (
	"testing"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	teamID := uuid.New()
	uploader := uuid.New()

	t.Run("creates metadata with storage key", func(t *testing.T) {
		d, err := NewDocument(teamID, uploader, "Onboarding Guide", "guide.pdf", "application/pdf", 1024, identity.RoleAgent)

		require.NoError(t, err)
		assert.Equal(t, teamID, d.TeamID)
		assert.Equal(t, "guide.pdf", d.FileName)
		assert.Contains(t, d.StorageKey, "teams/"+teamID.String()+"/documents/")
		assert.Contains(t, d.StorageKey, ".pdf")
		require.NotNil(t, d.CreatedBy)
		assert.Equal(t, uploader, *d.CreatedBy)
	})

	t.Run("strips directory components from filename", func(t *testing.T) {
		d, err := NewDocument(teamID, uploader, "Guide", "../../etc/guide.pdf", "application/pdf", 1024, identity.RoleAgent)
		require.NoError(t, err)
		assert.Equal(t, "guide.pdf", d.FileName)
	})

	t.Run("rejects disallowed extensions", func(t *testing.T) {
		_, err := NewDocument(teamID, uploader, "App", "setup.exe", "application/octet-stream", 1024, identity.RoleAgent)
		assert.Error(t, err)
	})

	t.Run("rejects oversized and empty files", func(t *testing.T) {
		_, err := NewDocument(teamID, uploader, "Big", "big.pdf", "application/pdf", MaxFileSize+1, identity.RoleAgent)
		assert.Error(t, err)
		_, err = NewDocument(teamID, uploader, "Empty", "empty.pdf", "application/pdf", 0, identity.RoleAgent)
		assert.Error(t, err)
	})

	t.Run("rejects super admin as min role", func(t *testing.T) {
		_, err := NewDocument(teamID, uploader, "Secret", "s.pdf", "application/pdf", 10, identity.RoleSuperAdmin)
		assert.Error(t, err)
	})
}

func TestDocumentVisibleTo(t *testing.T) {
	d, err := NewDocument(uuid.New(), uuid.New(), "Managers Only", "m.pdf", "application/pdf", 10, identity.RoleDistrictManager)
	require.NoError(t, err)

	assert.False(t, d.VisibleTo(identity.RoleAgent))
	assert.True(t, d.VisibleTo(identity.RoleDistrictManager))
	assert.True(t, d.VisibleTo(identity.RoleStateManager))
	assert.True(t, d.VisibleTo(identity.RoleSuperAdmin))
}

func TestDocumentMutations(t *testing.T) {
	d, err := NewDocument(uuid.New(), uuid.New(), "Guide", "g.pdf", "application/pdf", 10, identity.RoleAgent)
	require.NoError(t, err)

	require.NoError(t, d.SetMinRole(identity.RoleRegionalManager))
	assert.False(t, d.VisibleTo(identity.RoleDistrictManager))

	require.NoError(t, d.SetDescription("  quarterly playbook "))
	assert.Equal(t, "quarterly playbook", d.Description)

	d.RecordDownload()
	d.RecordDownload()
	assert.Equal(t, int64(2), d.Downloads)
}
