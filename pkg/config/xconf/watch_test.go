package xconf

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := writeFile(t, "pool.yaml", "log:\n  level: info\n")
	l, err := New(path)
	require.NoError(t, err)

	levels := make(chan string, 8)
	w, err := Watch(l, func(l *Loader, err error) {
		if err != nil {
			return
		}
		cfg, err := l.Pool("")
		if err == nil {
			select {
			case levels <- cfg.Log.Level:
			default:
			}
		}
	}, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer func() { assert.NoError(t, w.Stop()) }()

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))

	// 截断与写入可能产生多次事件，只关心最终读到新级别
	deadline := time.After(5 * time.Second)
	for {
		select {
		case level := <-levels:
			if level == "debug" {
				return
			}
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}

func TestWatch_StopIsIdempotent(t *testing.T) {
	l, err := New(writeFile(t, "pool.json", `{"workers": 1}`))
	require.NoError(t, err)

	w, err := Watch(l, nil)
	require.NoError(t, err)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestWatch_Rejected(t *testing.T) {
	_, err := Watch(nil, nil)
	assert.ErrorIs(t, err, ErrNotReloadable)

	l, err := NewFromBytes([]byte("workers: 1"), FormatYAML)
	require.NoError(t, err)
	_, err = Watch(l, nil)
	assert.ErrorIs(t, err, ErrNotReloadable)
}
