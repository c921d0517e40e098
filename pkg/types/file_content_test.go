package types

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileContent_CompletePageReachesZeroOnce(t *testing.T) {
	fc := NewFileContent("f.txt", []rune("hello"), nil, 3)
	assert.Equal(t, 3, fc.PagesRemaining())

	_, last1 := fc.CompletePage()
	assert.False(t, last1)
	_, last2 := fc.CompletePage()
	assert.False(t, last2)
	_, last3 := fc.CompletePage()
	assert.True(t, last3)
	assert.Equal(t, 0, fc.PagesRemaining())
}

func TestFileContent_CompletePageConcurrent(t *testing.T) {
	const numPages = 64
	fc := NewFileContent("f.txt", nil, nil, numPages)

	var wg sync.WaitGroup
	lastCount := 0
	var mu sync.Mutex
	for i := 0; i < numPages; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, isLast := fc.CompletePage()
			if isLast {
				mu.Lock()
				lastCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, lastCount, "exactly one goroutine must observe the countdown reaching zero")
}

func TestFileContent_AddReplacementsAccumulates(t *testing.T) {
	fc := NewFileContent("f.txt", []rune("x"), nil, 1)
	fc.AddReplacements(3)
	fc.AddReplacements(4)
	assert.Equal(t, 7, fc.TotalReplacements())
}
