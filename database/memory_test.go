package database

import (
	"context"
	"intake/models"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steppingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(step)
		return current
	}
}

func TestMemoryStore_CreateForcesPending(t *testing.T) {
	store := NewMemoryStore()

	in := sampleProject("Engine Shop")
	in.Status = models.StatusAccepted
	in.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

	project, err := store.CreateProject(context.Background(), in)
	require.NoError(t, err)

	assert.NotEqual(t, in.ID, project.ID, "id is assigned by the store")
	assert.Equal(t, models.StatusPending, project.Status)
	assert.False(t, project.CreatedAt.IsZero())
	assert.Equal(t, project.CreatedAt, project.UpdatedAt)
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	store.SetClock(steppingClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Minute))
	ctx := context.Background()

	for _, title := range []string{"T1", "T2", "T3"} {
		_, err := store.CreateProject(ctx, sampleProject(title))
		require.NoError(t, err)
	}

	projects, err := store.ListProjects(ctx, models.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, []string{"T3", "T2", "T1"}, titles(projects))
}

func TestMemoryStore_ListSameTimestampUsesInsertionOrder(t *testing.T) {
	store := NewMemoryStore()
	frozen := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return frozen })
	ctx := context.Background()

	for _, title := range []string{"A", "B", "C"} {
		_, err := store.CreateProject(ctx, sampleProject(title))
		require.NoError(t, err)
	}

	projects, err := store.ListProjects(ctx, models.ProjectFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, titles(projects))
}

func TestMemoryStore_ListFilters(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	shop, err := store.CreateProject(ctx, sampleProject("Engine Shop"))
	require.NoError(t, err)
	blog := sampleProject("Poetry Blog")
	blog.Description = "Verses about mathematics"
	_, err = store.CreateProject(ctx, blog)
	require.NoError(t, err)

	_, err = store.TransitionStatus(ctx, shop.ID, models.StatusPending, models.StatusAccepted)
	require.NoError(t, err)

	pending, err := store.ListProjects(ctx, models.ProjectFilter{Status: models.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, []string{"Poetry Blog"}, titles(pending))

	found, err := store.ListProjects(ctx, models.ProjectFilter{Search: "MATHEMATICS verses"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Poetry Blog"}, titles(found))

	_, err = store.ListProjects(ctx, models.ProjectFilter{Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = store.ListProjects(ctx, models.ProjectFilter{Search: "x"})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestMemoryStore_SearchMatchesApostrophes(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	quoted := sampleProject("Don't Panic Guide")
	_, err := store.CreateProject(ctx, quoted)
	require.NoError(t, err)
	_, err = store.CreateProject(ctx, sampleProject("Engine Shop"))
	require.NoError(t, err)

	found, err := store.ListProjects(ctx, models.ProjectFilter{Search: "don't"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Don't Panic Guide"}, titles(found))

	found, err = store.ListProjects(ctx, models.ProjectFilter{Search: "dont panic"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Don't Panic Guide"}, titles(found))
}

func TestMemoryStore_TransitionStatus(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.CreateProject(ctx, sampleProject("Engine Shop"))
	require.NoError(t, err)

	updated, err := store.TransitionStatus(ctx, created.ID, models.StatusPending, models.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, updated.Status)

	_, err = store.TransitionStatus(ctx, created.ID, models.StatusPending, models.StatusRejected)
	assert.ErrorIs(t, err, ErrStatusConflict)

	_, err = store.TransitionStatus(ctx, uuid.New(), models.StatusPending, models.StatusRejected)
	assert.ErrorIs(t, err, ErrNotFound)

	stored, err := store.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, stored.Status)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.CreateProject(ctx, sampleProject("Engine Shop"))
	require.NoError(t, err)

	created.Status = models.StatusRejected
	created.Title = "mutated"

	stored, err := store.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, "Engine Shop", stored.Title)
}

func TestMemoryStore_Notifications(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	projectID := uuid.New()

	require.NoError(t, store.RecordNotification(ctx, models.Notification{ProjectID: projectID, Status: models.NotificationFailed}))
	require.NoError(t, store.RecordNotification(ctx, models.Notification{ProjectID: uuid.New(), Status: models.NotificationSent}))
	require.NoError(t, store.RecordNotification(ctx, models.Notification{ProjectID: projectID, Status: models.NotificationSent}))

	notifications, err := store.ListNotifications(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, models.NotificationSent, notifications[0].Status, "newest first")
	assert.Equal(t, models.NotificationFailed, notifications[1].Status)
	assert.NotEqual(t, uuid.Nil, notifications[0].ID)
}

func titles(projects []models.ProjectRequest) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.Title)
	}
	return out
}
