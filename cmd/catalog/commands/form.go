package commands

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/dyluth/catalog/internal/config"
	"github.com/dyluth/catalog/internal/form"
	"github.com/dyluth/catalog/internal/logging"
	"github.com/dyluth/catalog/internal/notify"
	"github.com/dyluth/catalog/internal/printer"
	"github.com/dyluth/catalog/pkg/catalog"
	"github.com/spf13/cobra"
)

// fieldFlags maps form fields to the flag names used by create and edit.
var fieldFlags = []struct {
	field form.Field
	flag  string
	usage string
}{
	{form.FieldID, "id", "Product ID (3-10 characters)"},
	{form.FieldName, "name", "Product name (5-100 characters)"},
	{form.FieldDescription, "description", "Description (10-200 characters)"},
	{form.FieldLogo, "logo", "Logo URL"},
	{form.FieldReleaseDate, "release", "Release date, today or later (YYYY-MM-DD)"},
	{form.FieldRevisionDate, "revision", "Revision date, at least one year after release (YYYY-MM-DD)"},
}

// registerFieldFlags adds one string flag per form field, except skip.
func registerFieldFlags(cmd *cobra.Command, skip form.Field) map[form.Field]*string {
	vars := make(map[form.Field]*string, len(fieldFlags))
	for _, ff := range fieldFlags {
		if ff.field == skip {
			continue
		}
		vars[ff.field] = cmd.Flags().String(ff.flag, "", ff.usage)
	}
	return vars
}

// changedValues returns the values of the field flags given on the command line.
func changedValues(cmd *cobra.Command, vars map[form.Field]*string) map[form.Field]string {
	values := make(map[form.Field]string)
	for _, ff := range fieldFlags {
		v, ok := vars[ff.field]
		if ok && cmd.Flags().Changed(ff.flag) {
			values[ff.field] = *v
		}
	}
	return values
}

// cliNavigator records where a finished session wants to go.
type cliNavigator struct {
	path string
}

func (n *cliNavigator) GoTo(path string) {
	n.path = path
}

// lockedWriter serializes writes from the render loop and the command.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// formRunner drives a form session from the command line. Notifications
// published by the session are rendered to out and broadcast on the
// instance channel.
type formRunner struct {
	store   *catalog.Client
	queue   *notify.Queue
	nav     *cliNavigator
	session *form.Session
	out     io.Writer

	rendered chan struct{}
}

// openForm connects to the store and starts a session. A nil record starts a
// create session, otherwise an edit session for that record.
func openForm(ctx context.Context, cmd *cobra.Command, cfg *config.CatalogConfig, source string, record *catalog.Product) (*formRunner, error) {
	store, err := connectStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return newFormRunner(cmd.OutOrStdout(), cfg, store, newLogger(cfg).With("source", source), source, record)
}

func newFormRunner(out io.Writer, cfg *config.CatalogConfig, store *catalog.Client, logger logging.Logger, source string, record *catalog.Product) (*formRunner, error) {
	queue := notify.NewQueue(
		notify.WithDefaultTTL(cfg.Notifications.DefaultTTL),
		notify.WithLogger(logger),
		notify.WithSink(notify.NewBroadcastSink(store, source, logger)),
	)

	r := &formRunner{
		store:    store,
		queue:    queue,
		nav:      &cliNavigator{},
		out:      &lockedWriter{w: out},
		rendered: make(chan struct{}),
	}

	events, _ := queue.Subscribe(16)
	go r.render(events)

	session, err := form.NewSession(form.Deps{
		Service:       store,
		Notifier:      queue,
		Navigator:     r.nav,
		Logger:        logger,
		ResetDelay:    cfg.Form.ResetDelay,
		CheckDebounce: cfg.Form.CheckDebounce,
	}, record)
	if err != nil {
		r.shutdown()
		return nil, err
	}
	r.session = session

	return r, nil
}

func (r *formRunner) render(events <-chan notify.Event) {
	defer close(r.rendered)

	renderer := printer.NewRenderer(r.out)
	for ev := range events {
		switch ev.Kind {
		case notify.EventPublished:
			renderer.Notification(ev.Notification.Severity, ev.Notification.Message)
		case notify.EventRemoved:
			renderer.Dismissed(ev.Notification.Message)
		}
	}
}

// apply enters each value as the user would: change, then leave the field.
// The identifier is only touched; verifyID runs its check.
func (r *formRunner) apply(values map[form.Field]string) error {
	for _, ff := range fieldFlags {
		value, ok := values[ff.field]
		if !ok {
			continue
		}
		if err := r.session.Change(ff.field, value); err != nil {
			return err
		}
		if ff.field == form.FieldID {
			r.session.State().Touch(form.FieldID)
			continue
		}
		r.session.Blur(ff.field)
	}
	return nil
}

// verifyID runs the uniqueness check for the current identifier and waits for it.
func (r *formRunner) verifyID(ctx context.Context) {
	done, started := r.session.CheckID()
	if !started {
		return
	}
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// failed reports whether the session has shown an error notification.
func (r *formRunner) failed() bool {
	for _, n := range r.queue.Live() {
		if n.Severity == catalog.SeverityError {
			return true
		}
	}
	return false
}

// reportInvalid prints every visible field error and returns a printer error.
func (r *formRunner) reportInvalid(title string) error {
	renderer := printer.NewRenderer(r.out)
	for _, ff := range fieldFlags {
		if r.session.IsFieldInvalid(ff.field) {
			renderer.FieldError("--"+ff.flag, r.session.ErrorMessage(ff.field))
		}
	}
	return printer.Error(title, "One or more fields are invalid.", []string{"Fix the fields listed above and try again"})
}

// submit dispatches the form and waits for the outcome. Remote failures have
// already been shown as notifications when it returns.
func (r *formRunner) submit(ctx context.Context, title string) error {
	sub, err := r.session.Submit(ctx)
	if err != nil {
		if errors.Is(err, form.ErrFormInvalid) {
			return r.reportInvalid(title)
		}
		return err
	}

	return sub.Wait(ctx)
}

// close ends the session and waits for pending notifications to be rendered.
func (r *formRunner) close() {
	if r.session != nil {
		r.session.Close()
	}
	r.shutdown()
}

func (r *formRunner) shutdown() {
	r.queue.Close()
	<-r.rendered
	r.store.Close()
}
