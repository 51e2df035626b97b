// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"code.vegaprotocol.io/vaults/logging"

	"github.com/fsnotify/fsnotify"
)

const namedLogger = "cfgwatcher"

// Watcher is looking for updates in the configuration file.
type Watcher struct {
	log  *logging.Logger
	path string

	mu                 sync.Mutex
	cfg                Config
	cfgUpdateListeners []func(Config)
}

// NewWatcher loads the configuration from the root path and reloads it
// each time the file is updated, until the context is cancelled.
func NewWatcher(ctx context.Context, log *logging.Logger, rootPath string) (*Watcher, error) {
	watcherlog := log.Named(namedLogger)
	// set this logger to debug level as we want to be notified for any configuration changes at any time
	watcherlog.SetLevel(logging.DebugLevel)
	w := &Watcher{
		log:                watcherlog,
		cfg:                NewDefaultConfig(),
		path:               filepath.Join(rootPath, FileName),
		cfgUpdateListeners: []func(Config){},
	}

	if err := w.load(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// editors often replace the file, watching the directory keeps
	// working across renames
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return nil, err
	}

	w.log.Info("config watcher started successfully",
		logging.String("config", w.path))

	go w.watch(ctx, watcher)

	return w, nil
}

// Get return the last update of the configuration.
func (w *Watcher) Get() Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg
}

// OnConfigUpdate register a function to be called when the configuration is getting updated.
func (w *Watcher) OnConfigUpdate(fns ...func(Config)) {
	w.mu.Lock()
	w.cfgUpdateListeners = append(w.cfgUpdateListeners, fns...)
	w.mu.Unlock()
}

func (w *Watcher) load() error {
	cfg := NewDefaultConfig()
	if err := decodeFile(w.path, &cfg); err != nil {
		return err
	}
	w.mu.Lock()
	w.cfg = cfg
	w.mu.Unlock()
	return nil
}

func (w *Watcher) notify() {
	w.mu.Lock()
	cfg := w.cfg
	listeners := make([]func(Config), len(w.cfgUpdateListeners))
	copy(listeners, w.cfgUpdateListeners)
	w.mu.Unlock()

	for _, f := range listeners {
		f(cfg)
	}
}

func (w *Watcher) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !event.Has(fsnotify.Write) {
				// the file may not be fully written yet when replaced
				time.Sleep(50 * time.Millisecond)
			}
			w.log.Info("configuration updated", logging.String("event", event.Name))
			if err := w.load(); err != nil {
				w.log.Error("unable to load configuration", logging.Error(err))
				continue
			}
			w.notify()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("config watcher received error event", logging.Error(err))
		case <-ctx.Done():
			w.log.Debug("config watcher ctx done")
			return
		}
	}
}
