package notify

import (
	"context"
	"intake/models"
	"log"
	"sync"
	"time"
)

// Recorder stores the outcome of each send attempt.
type Recorder interface {
	RecordNotification(ctx context.Context, n models.Notification) error
}

// Dispatcher sends messages in the background. A failed send is logged and
// recorded but never reported to whoever called Dispatch.
type Dispatcher struct {
	sender   Sender
	recorder Recorder
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewDispatcher bounds every send by timeout. recorder may be nil.
func NewDispatcher(sender Sender, recorder Recorder, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		sender:   sender,
		recorder: recorder,
		timeout:  timeout,
	}
}

// Dispatch returns immediately. The send runs detached from any request
// context so a client disconnect does not abort it.
func (d *Dispatcher) Dispatch(msg Message) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.deliver(msg)
	}()
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	err := d.sender.Send(ctx, msg.To, msg.Subject, msg.HTMLBody)

	record := models.Notification{
		ProjectID: msg.ProjectID,
		Kind:      msg.Kind,
		Recipient: msg.To,
		Subject:   msg.Subject,
		Status:    models.NotificationSent,
	}
	if err != nil {
		record.Status = models.NotificationFailed
		record.Error = err.Error()
		log.Printf("Notification failed: project=%s kind=%s to=%s duration=%v err=%v",
			msg.ProjectID, msg.Kind, msg.To, time.Since(start), err)
	} else {
		log.Printf("Notification sent: project=%s kind=%s to=%s duration=%v",
			msg.ProjectID, msg.Kind, msg.To, time.Since(start))
	}

	if d.recorder == nil {
		return
	}
	// fresh context: the send may have used up the first one
	recordCtx, cancelRecord := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelRecord()
	if err := d.recorder.RecordNotification(recordCtx, record); err != nil {
		log.Printf("Notification record failed: project=%s err=%v", msg.ProjectID, err)
	}
}

// Wait blocks until in-flight sends finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
