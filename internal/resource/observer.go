package resource

import (
	"context"
	"log/slog"

	"github.com/thoreinstein/resindex/internal/logging"
)

// Observer receives advisory scan lifecycle notifications. Calls happen on
// the scanning goroutine, in order, before the scan proceeds.
type Observer interface {
	ScanStarted(path string, t Type)
	ResourceFound(r DiscoveredResource)
	ScanCompleted(path string, count int)
	ScanFailed(err *ScanAccessError)
}

// ObserverFuncs adapts optional functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnStarted   func(path string, t Type)
	OnFound     func(r DiscoveredResource)
	OnCompleted func(path string, count int)
	OnFailed    func(err *ScanAccessError)
}

func (o ObserverFuncs) ScanStarted(path string, t Type) {
	if o.OnStarted != nil {
		o.OnStarted(path, t)
	}
}

func (o ObserverFuncs) ResourceFound(r DiscoveredResource) {
	if o.OnFound != nil {
		o.OnFound(r)
	}
}

func (o ObserverFuncs) ScanCompleted(path string, count int) {
	if o.OnCompleted != nil {
		o.OnCompleted(path, count)
	}
}

func (o ObserverFuncs) ScanFailed(err *ScanAccessError) {
	if o.OnFailed != nil {
		o.OnFailed(err)
	}
}

// multiObserver forwards every notification to each observer in order.
type multiObserver []Observer

// MultiObserver combines observers. Nil entries are dropped.
func MultiObserver(observers ...Observer) Observer {
	var m multiObserver
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m multiObserver) ScanStarted(path string, t Type) {
	for _, o := range m {
		o.ScanStarted(path, t)
	}
}

func (m multiObserver) ResourceFound(r DiscoveredResource) {
	for _, o := range m {
		o.ResourceFound(r)
	}
}

func (m multiObserver) ScanCompleted(path string, count int) {
	for _, o := range m {
		o.ScanCompleted(path, count)
	}
}

func (m multiObserver) ScanFailed(err *ScanAccessError) {
	for _, o := range m {
		o.ScanFailed(err)
	}
}

// logObserver writes scan progress to a logger.
type logObserver struct {
	logger *slog.Logger
}

func (o logObserver) ScanStarted(path string, t Type) {
	o.logger.Debug("scan started", "path", path, "type", t.String())
}

func (o logObserver) ResourceFound(r DiscoveredResource) {
	o.logger.Log(context.Background(), logging.LevelTrace, "resource found",
		"path", r.Path,
		"type", r.Type.String(),
		"tier", r.Tier.String())
}

func (o logObserver) ScanCompleted(path string, count int) {
	o.logger.Debug("scan completed", "path", path, "count", count)
}

func (o logObserver) ScanFailed(err *ScanAccessError) {
	o.logger.Warn("scan failed", "path", err.Path, "error", err.Err)
}
