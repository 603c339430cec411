package importers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/commlog/internal/entities"
)

type mockCreator struct {
	mu      sync.Mutex
	entries []*entities.Entry
	failOn  map[string]error
	started chan struct{}
	release chan struct{}
}

func (m *mockCreator) CreateEntry(ctx context.Context, entry *entities.Entry) error {
	if m.started != nil {
		m.started <- struct{}{}
		<-m.release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failOn[entry.Title]; ok {
		return err
	}
	entry.ID = uint(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockCreator) titles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	titles := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		titles = append(titles, e.Title)
	}
	return titles
}

func TestSession_EndToEndCSV(t *testing.T) {
	creator := &mockCreator{}
	session := NewSession("s1", creator)

	preview, err := session.Load(context.Background(), "log.csv",
		strings.NewReader("title,description,date\nTalked to neighbor,Loud noise complaint,15.03.2024\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, preview.ValidCount)
	assert.Equal(t, 0, preview.InvalidCount)
	assert.Equal(t, StatePreviewed, session.State())

	result, err := session.Commit(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)
	assert.Equal(t, StateComplete, session.State())

	require.Len(t, creator.entries, 1)
	entry := creator.entries[0]
	assert.Equal(t, uint(3), entry.UserID)
	assert.Equal(t, "Talked to neighbor", entry.Title)
	assert.Equal(t, "Loud noise complaint", entry.Description)
	assert.Equal(t, entities.CategoryOther, entry.Category)
	assert.Equal(t, []string{}, entry.Tags)
	assert.Equal(t, day(2024, time.March, 15), entry.Date)
	assert.Empty(t, entry.Attachments)
}

func TestSession_PartialFailureContinues(t *testing.T) {
	creator := &mockCreator{failOn: map[string]error{"B": errors.New("disk full")}}
	session := NewSession("s1", creator)

	_, err := session.Load(context.Background(), "log.csv",
		strings.NewReader("title,description\nA,first\nB,second\nC,third\n"))
	require.NoError(t, err)

	result, err := session.Commit(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{`failed to import "B": disk full`}, result.Errors)
	assert.Equal(t, []string{"A", "C"}, creator.titles())
}

func TestSession_OnlyValidRowsAreCommitted(t *testing.T) {
	creator := &mockCreator{}
	session := NewSession("s1", creator)

	preview, err := session.Load(context.Background(), "log.csv",
		strings.NewReader("title,description,date\nA,ok,01.01.2024\n,missing title,\nC,ok,31.02.2024\nD,ok,\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, preview.ValidCount)
	assert.Equal(t, 2, preview.InvalidCount)

	result, err := session.Commit(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, preview.ValidCount, result.Success+result.Failed)
	assert.Equal(t, []string{"A", "D"}, creator.titles())
}

func TestSession_MissingDateBecomesToday(t *testing.T) {
	creator := &mockCreator{}
	session := NewSession("s1", creator)
	session.now = func() time.Time { return time.Date(2024, time.July, 9, 18, 30, 0, 0, time.UTC) }

	_, err := session.Load(context.Background(), "log.csv", strings.NewReader("title,description\nA,B\n"))
	require.NoError(t, err)
	_, err = session.Commit(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, creator.entries, 1)
	assert.Equal(t, day(2024, time.July, 9), creator.entries[0].Date)
}

func TestSession_UnreadableFile(t *testing.T) {
	session := NewSession("s1", &mockCreator{})

	preview, err := session.Load(context.Background(), "log.xlsx", strings.NewReader("garbage"))

	require.NoError(t, err)
	assert.Equal(t, []string{FileReadError}, preview.Errors)
	assert.Equal(t, 0, preview.ValidCount)
	assert.Equal(t, 0, preview.TotalRows)
	assert.Equal(t, StatePreviewed, session.State())

	result, err := session.Commit(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Success)
	assert.Equal(t, 0, result.Failed)
}

func TestSession_StateErrors(t *testing.T) {
	session := NewSession("s1", &mockCreator{})

	_, err := session.Commit(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNothingToCommit)

	_, err = session.Load(context.Background(), "log.csv", strings.NewReader("title,description\nA,B\n"))
	require.NoError(t, err)
	_, err = session.Commit(context.Background(), 0)
	require.NoError(t, err)

	_, err = session.Commit(context.Background(), 0)
	assert.ErrorIs(t, err, ErrSessionComplete)

	// a new file makes the session usable again
	preview, err := session.Load(context.Background(), "log.csv", strings.NewReader("title,description\nC,D\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, preview.ValidCount)
	assert.Equal(t, StatePreviewed, session.State())
	assert.Nil(t, session.Snapshot().Result)
}

func TestSession_CommitInProgress(t *testing.T) {
	creator := &mockCreator{started: make(chan struct{}), release: make(chan struct{})}
	session := NewSession("s1", creator)
	_, err := session.Load(context.Background(), "log.csv", strings.NewReader("title,description\nA,B\n"))
	require.NoError(t, err)

	done := make(chan ImportResult)
	go func() {
		result, _ := session.Commit(context.Background(), 0)
		done <- result
	}()

	<-creator.started
	assert.Equal(t, StateCommitting, session.State())

	_, err = session.Commit(context.Background(), 0)
	assert.ErrorIs(t, err, ErrCommitInProgress)
	_, err = session.Load(context.Background(), "log.csv", strings.NewReader("title,description\nX,Y\n"))
	assert.ErrorIs(t, err, ErrCommitInProgress)

	close(creator.release)
	result := <-done
	assert.Equal(t, 1, result.Success)
	assert.Equal(t, StateComplete, session.State())
}

func TestSession_CancelledContextFailsRemainingRows(t *testing.T) {
	creator := &mockCreator{}
	session := NewSession("s1", creator)
	_, err := session.Load(context.Background(), "log.csv", strings.NewReader("title,description\nA,B\nC,D\n"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := session.Commit(ctx, 0)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Success)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, `failed to import "A": context canceled`, result.Errors[0])
	assert.Empty(t, creator.titles())
}

func TestSession_PreviewSample(t *testing.T) {
	session := NewSession("s1", &mockCreator{})
	_, err := session.Load(context.Background(), "log.csv",
		strings.NewReader("title,description,category\nA,1,Konflikt\nB,2,\nC,3,\nD,4,\nE,5,\n"))
	require.NoError(t, err)

	preview, sample := session.Preview()

	assert.Equal(t, 5, preview.ValidCount)
	require.Len(t, sample, 3)
	assert.Equal(t, "A", sample[0].Title)
	assert.Equal(t, entities.CategoryConflict, sample[0].Category)
	assert.Equal(t, "C", sample[2].Title)
}

func TestSession_SnapshotResultIsACopy(t *testing.T) {
	creator := &mockCreator{failOn: map[string]error{"A": errors.New("nope")}}
	session := NewSession("s1", creator)
	_, err := session.Load(context.Background(), "log.csv", strings.NewReader("title,description\nA,B\n"))
	require.NoError(t, err)
	_, err = session.Commit(context.Background(), 0)
	require.NoError(t, err)

	snap := session.Snapshot()
	require.NotNil(t, snap.Result)
	snap.Result.Errors[0] = "changed"
	snap.Result.Failed = 99

	again := session.Snapshot()
	assert.Equal(t, 1, again.Result.Failed)
	assert.Equal(t, `failed to import "A": nope`, again.Result.Errors[0])
	assert.Empty(t, again.Sample)
}
