package xconf

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce 是默认防抖时间。
const DefaultDebounce = 100 * time.Millisecond

// WatchCallback 在每次重载后调用，err 非 nil 表示重载失败，Loader 保持旧配置。
type WatchCallback func(l *Loader, err error)

// WatchOption 配置 [Watch]。
type WatchOption func(*Watcher)

// WithDebounce 设置防抖时间，窗口内的多次变更只触发一次重载。非正值将被忽略。
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher 监视配置文件并自动重载。
type Watcher struct {
	loader   *Loader
	fs       *fsnotify.Watcher
	callback WatchCallback
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool

	stop chan struct{}
	wg   sync.WaitGroup
}

// Watch 开始监视 l 对应的文件，返回前后台循环已启动。调用方必须调用 Stop。
func Watch(l *Loader, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	if l == nil || l.isBytes || l.path == "" {
		return nil, ErrNotReloadable
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xconf: create watcher: %w", err)
	}
	dir := filepath.Dir(l.path)
	if err := fsw.Add(dir); err != nil {
		return nil, errors.Join(fmt.Errorf("xconf: watch directory %s: %w", dir, err), fsw.Close())
	}

	w := &Watcher{
		loader:   l,
		fs:       fsw,
		callback: callback,
		debounce: DefaultDebounce,
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Stop 停止监视。返回后不会再有新的回调开始执行；可重复调用。
// 不要在回调中调用 Stop。
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if w.timer != nil && w.timer.Stop() {
		w.wg.Done()
	}
	w.timer = nil
	close(w.stop)
	w.mu.Unlock()

	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	filename := filepath.Base(w.loader.path)
	for {
		select {
		case <-w.stop:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			// Rename 覆盖 vim/emacs 的原子写入
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.schedule()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.notify(fmt.Errorf("xconf: watch error: %w", err))
		}
	}
}

// schedule 重置防抖定时器。
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	// 被取消的定时器不会执行回调，需要在这里抵消它的计数
	if w.timer != nil && w.timer.Stop() {
		w.wg.Done()
	}
	w.wg.Add(1)
	w.timer = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()
		w.notify(w.loader.Reload())
	})
}

func (w *Watcher) notify(err error) {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped || w.callback == nil {
		return
	}
	w.callback(w.loader, err)
}
