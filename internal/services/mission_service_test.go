package services

import (
	"context"
	"testing"
	"time"

	"badgeflow/internal/blockchain"
	"badgeflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMissionFixture(ledger blockchain.Ledger) (MissionService, *fakeMissionRepo, *fakeBadgeRepo) {
	badges := newFakeBadgeRepo()
	missions := newFakeMissionRepo(badges)
	registrar := blockchain.NewRegistrar(ledger, zap.NewNop())
	return NewMissionService(missions, badges, registrar, zap.NewNop()), missions, badges
}

func seedMission(t *testing.T, missions *fakeMissionRepo) *models.Mission {
	t.Helper()
	mission := &models.Mission{
		ID:         "mission-1",
		Title:      "Read 10 books",
		BadgeName:  "Reading Master",
		BadgeColor: "#E8F5E9",
		Category:   "Learning",
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, missions.Create(context.Background(), mission))
	return mission
}

func TestCompleteMissionIssuesBadge(t *testing.T) {
	service, missions, _ := newMissionFixture(newStubLedger(false))
	mission := seedMission(t, missions)

	result, err := service.Complete(context.Background(), mission.ID, "user-1")
	require.NoError(t, err)

	badge := result.Badge
	assert.NotEmpty(t, badge.ID)
	assert.Equal(t, mission.ID, badge.MissionID)
	assert.Equal(t, "user-1", badge.UserID)
	assert.Equal(t, "Reading Master", badge.BadgeName)

	// The earned timestamp is rendered once, at issuance, in the canonical
	// millisecond layout.
	_, err = time.Parse(models.EarnedAtLayout, badge.EarnedAt)
	assert.NoError(t, err)
}

func TestCompleteMissionExactlyOnce(t *testing.T) {
	service, missions, _ := newMissionFixture(newStubLedger(false))
	mission := seedMission(t, missions)

	_, err := service.Complete(context.Background(), mission.ID, "user-1")
	require.NoError(t, err)

	_, err = service.Complete(context.Background(), mission.ID, "user-1")
	require.Error(t, err)

	serviceErr := GetServiceError(err)
	assert.Equal(t, "CONFLICT", serviceErr.Type)
	assert.Equal(t, "MISSION_ALREADY_COMPLETED", serviceErr.Code)

	// A different user can still complete the same mission.
	_, err = service.Complete(context.Background(), mission.ID, "user-2")
	assert.NoError(t, err)
}

func TestCompleteMissionUnknownMission(t *testing.T) {
	service, _, _ := newMissionFixture(newStubLedger(false))

	_, err := service.Complete(context.Background(), "missing", "user-1")
	assert.True(t, IsNotFoundError(err))
}

func TestCompleteMissionAnchorsWhenLedgerUp(t *testing.T) {
	ledger := newStubLedger(true)
	service, missions, badges := newMissionFixture(ledger)
	mission := seedMission(t, missions)

	result, err := service.Complete(context.Background(), mission.ID, "user-1")
	require.NoError(t, err)

	require.Equal(t, blockchain.RegistrationConfirmed, result.Registration.Status)
	require.NotNil(t, result.Badge.TxHash)
	assert.Equal(t, result.Registration.TxHash, *result.Badge.TxHash)
	require.NotNil(t, result.Badge.BlockNumber)
	require.NotNil(t, result.Badge.ContractAddress)

	// Provenance is persisted, not just returned.
	stored, err := badges.GetByID(context.Background(), result.Badge.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.TxHash)
	assert.Equal(t, result.Registration.TxHash, *stored.TxHash)
}

func TestCompleteMissionSucceedsWhenLedgerDown(t *testing.T) {
	service, missions, badges := newMissionFixture(newStubLedger(false))
	mission := seedMission(t, missions)

	result, err := service.Complete(context.Background(), mission.ID, "user-1")
	require.NoError(t, err, "issuance must not depend on the ledger")

	assert.Equal(t, blockchain.RegistrationSkipped, result.Registration.Status)
	assert.Nil(t, result.Badge.TxHash)

	stored, err := badges.GetByID(context.Background(), result.Badge.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.TxHash)
}

func TestListWithCompletionFlags(t *testing.T) {
	service, missions, _ := newMissionFixture(newStubLedger(false))
	mission := seedMission(t, missions)
	require.NoError(t, missions.Create(context.Background(), &models.Mission{
		ID: "mission-2", Title: "Study for a week", BadgeName: "Learning Champion",
	}))

	_, err := service.Complete(context.Background(), mission.ID, "user-1")
	require.NoError(t, err)

	listed, err := service.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, listed, 2)

	byID := map[string]bool{}
	for _, m := range listed {
		byID[m.ID] = m.Completed
	}
	assert.True(t, byID["mission-1"])
	assert.False(t, byID["mission-2"])

	// Anonymous listing carries no completion flags.
	anonymous, err := service.List(context.Background(), "")
	require.NoError(t, err)
	for _, m := range anonymous {
		assert.False(t, m.Completed)
	}
}

func TestCreateAndUpdateMission(t *testing.T) {
	service, _, _ := newMissionFixture(newStubLedger(false))

	created, err := service.Create(context.Background(), &CreateMissionRequest{
		Title:       "Pass the Hanja exam",
		Description: "Pass the certification exam",
		BadgeName:   "Hanja Master",
		Category:    "Certification",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	newTitle := "Pass the Hanja exam, level 2"
	updated, err := service.Update(context.Background(), created.ID, &UpdateMissionRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, "Hanja Master", updated.BadgeName, "unset fields keep their values")
}

func TestDeleteMission(t *testing.T) {
	service, missions, _ := newMissionFixture(newStubLedger(false))
	mission := seedMission(t, missions)

	require.NoError(t, service.Delete(context.Background(), mission.ID))
	assert.True(t, IsNotFoundError(service.Delete(context.Background(), mission.ID)))
}
