package jobs

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	id := r.Create()

	j, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, j.Status)
	assert.Equal(t, 0.0, j.Progress)
	assert.Nil(t, j.OutputPath)
	assert.Nil(t, j.Error)

	r.SetProgress(id, 0.4)
	j, _ = r.Get(id)
	assert.Equal(t, 0.4, j.Progress)

	r.Complete(id, "/exports/out.mp4")
	j, _ = r.Get(id)
	assert.Equal(t, StatusComplete, j.Status)
	assert.Equal(t, 1.0, j.Progress)
	require.NotNil(t, j.OutputPath)
	assert.Equal(t, "/exports/out.mp4", *j.OutputPath)
	assert.Nil(t, j.Error)
}

func TestRegistryFail(t *testing.T) {
	r := NewRegistry()
	id := r.Create()

	r.Fail(id, "decode failed")
	j, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusError, j.Status)
	require.NotNil(t, j.Error)
	assert.Equal(t, "decode failed", *j.Error)
	assert.Nil(t, j.OutputPath)

	// Progress updates after a terminal state are ignored.
	r.SetProgress(id, 0.9)
	j, _ = r.Get(id)
	assert.Equal(t, 0.0, j.Progress)
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryClampsProgress(t *testing.T) {
	r := NewRegistry()
	id := r.Create()

	r.SetProgress(id, 3)
	j, _ := r.Get(id)
	assert.Equal(t, 1.0, j.Progress)

	r.SetProgress(id, -1)
	j, _ = r.Get(id)
	assert.Equal(t, 0.0, j.Progress)
}

func TestJobJSONNulls(t *testing.T) {
	r := NewRegistry()
	id := r.Create()
	j, _ := r.Get(id)

	raw, err := json.Marshal(j)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"outputPath":null`)
	assert.Contains(t, string(raw), `"error":null`)
	assert.Contains(t, string(raw), `"status":"processing"`)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	id := r.Create()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r.SetProgress(id, float64(n)/32)
			_, _ = r.Get(id)
		}(i)
	}
	wg.Wait()

	j, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, j.Status)
}
