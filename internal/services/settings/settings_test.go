package settings

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdate_PartialPatch(t *testing.T) {
	t.Parallel()

	svc := New(Values{TargetChatID: -100, BotUsername: "ref_bot"})

	newChat := int64(-200)
	got := svc.Update(Patch{TargetChatID: &newChat})

	assert.Equal(t, int64(-200), got.TargetChatID)
	assert.Equal(t, "ref_bot", got.BotUsername, "unpatched field must survive")
	assert.Equal(t, got, svc.Snapshot())
}

func TestUpdate_ConcurrentReaders(t *testing.T) {
	t.Parallel()

	svc := New(Values{BotUsername: "a"})

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()

			name := "b"
			svc.Update(Patch{BotUsername: &name})
		}()

		go func() {
			defer wg.Done()

			v := svc.Snapshot()
			assert.Contains(t, []string{"a", "b"}, v.BotUsername)
		}()
	}

	wg.Wait()
}
