package bagsplit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Tanmoy095/LogiSynapse/shared/contracts"
	"github.com/Tanmoy095/LogiSynapse/shared/logger"
	"go.uber.org/zap"
)

// DefaultSuccessDelay is how long the confirmation stays up before the dialog
// closes and the bag listing is refreshed.
const DefaultSuccessDelay = 1500 * time.Millisecond

const genericFailureMessage = "Failed to create sub-bag. Please try again."

// State of the sub-bag dialog.
type State int

const (
	StateClosed State = iota
	StateInitializing
	StateEditing
	StateValidating
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateInitializing:
		return "initializing"
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// BagAPI is the remote bag service.
type BagAPI interface {
	UpdateBag(ctx context.Context, req contracts.SubBagTransferRequest) (contracts.UpdateBagResponse, error)
}

// IdentifierSource mints the next sub-bag AWB.
type IdentifierSource interface {
	SubBagAWB(ctx context.Context) string
}

// Notifier shows transient messages to the operator.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// EventSink is told about every sub-bag the backend accepted.
type EventSink interface {
	SubBagCreated(ctx context.Context, req contracts.SubBagTransferRequest) error
}

// RefetchFunc reloads the bag listing after a successful split.
type RefetchFunc func(ctx context.Context) error

// Options are the optional collaborators of a Dialog.
type Options struct {
	Notifier     Notifier
	Events       EventSink
	Refetch      RefetchFunc
	SuccessDelay time.Duration
	// Sleep waits out the success delay. Defaults to time.Sleep.
	Sleep  func(time.Duration)
	Logger *zap.Logger
}

// Result describes an accepted sub-bag.
type Result struct {
	NewBagAWB string
	Message   string
}

// Dialog drives one sub-bag transfer from opening the form to the backend's
// answer. It is safe for concurrent use.
type Dialog struct {
	api  BagAPI
	ids  IdentifierSource
	opts Options
	log  *zap.Logger

	mu       sync.Mutex
	state    State
	form     Form
	selected map[string]bool
}

func NewDialog(api BagAPI, ids IdentifierSource, opts Options) *Dialog {
	opts.Logger = logger.OrNop(opts.Logger)
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	if opts.SuccessDelay < 0 {
		opts.SuccessDelay = 0
	}
	return &Dialog{
		api:   api,
		ids:   ids,
		opts:  opts,
		log:   opts.Logger,
		state: StateClosed,
	}
}

func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Open pre-fills the form for splitting bag on behalf of profile.
func (d *Dialog) Open(ctx context.Context, bag contracts.Bag, profile contracts.UserProfile) error {
	d.mu.Lock()
	if d.state != StateClosed {
		d.mu.Unlock()
		return ErrDialogOpen
	}
	d.state = StateInitializing
	d.mu.Unlock()

	newAWB := d.ids.SubBagAWB(ctx)

	source := profile.Address
	if source.Name == "" {
		source.Name = profile.Name
	}
	if source.Phone == "" {
		source.Phone = profile.Phone
	}
	if source.Email == "" {
		source.Email = profile.Email
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateInitializing {
		// closed while the AWB was being minted
		return ErrDialogClosed
	}
	d.form = Form{
		SourceBag:       bag,
		OldBagAWB:       bag.AWBNo,
		NewBagAWB:       newAWB,
		StaffID:         profile.ID,
		SourceAddressID: profile.Address.ID,
		Source:          source,
		Destination:     bag.Destination(),
	}
	d.selected = make(map[string]bool)
	d.state = StateEditing
	d.log.Debug("sub-bag dialog opened",
		zap.String("old_bag_awb", bag.AWBNo),
		zap.String("new_bag_awb", newAWB))
	return nil
}

// TogglePackage flips the selection of awb and reports whether it is now selected.
func (d *Dialog) TogglePackage(awb string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.editableLocked(); err != nil {
		return false, err
	}
	if !d.form.SourceBag.HasPackage(awb) {
		return false, fmt.Errorf("%w: %s", ErrUnknownPackage, awb)
	}
	d.selected[awb] = !d.selected[awb]
	d.syncSelectionLocked()
	return d.selected[awb], nil
}

func (d *Dialog) SetTransferLocation(location string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.editableLocked(); err != nil {
		return err
	}
	d.form.TransferLocation = location
	return nil
}

// SetDestination replaces the receiver address of the new sub-bag.
func (d *Dialog) SetDestination(dest contracts.Address) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.editableLocked(); err != nil {
		return err
	}
	d.form.Destination = dest
	return nil
}

// Form returns a snapshot of the current form.
func (d *Dialog) Form() Form {
	d.mu.Lock()
	defer d.mu.Unlock()
	f := d.form
	f.Selected = append([]string(nil), d.form.Selected...)
	f.SourceBag.PackageAWBNos = append([]string(nil), d.form.SourceBag.PackageAWBNos...)
	return f
}

// Close discards the form. It cannot interrupt a submission.
func (d *Dialog) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateSubmitting || d.state == StateSucceeded {
		return ErrSubmissionInFlight
	}
	d.resetLocked()
	return nil
}

// Submit validates the form and sends it to the backend. A *ValidationError
// leaves the dialog editable without any network call. A rejected or failed
// request returns a *SubmitError and keeps the form as it was. On success
// the dialog waits out the success delay, closes and triggers the refetch.
//
// Cancelling ctx does not abort a request that has already been sent.
func (d *Dialog) Submit(ctx context.Context) (Result, error) {
	//1. Editing -> Validating
	d.mu.Lock()
	switch d.state {
	case StateEditing, StateFailed:
	case StateSubmitting, StateSucceeded:
		d.mu.Unlock()
		return Result{}, ErrSubmissionInFlight
	default:
		d.mu.Unlock()
		return Result{}, ErrDialogClosed
	}
	d.state = StateValidating
	req := BuildRequest(d.form)

	//2. Report every missing field at once
	if missing := Validate(req); len(missing) > 0 {
		d.state = StateEditing
		d.mu.Unlock()
		return Result{}, &ValidationError{Missing: missing}
	}
	d.state = StateSubmitting
	d.mu.Unlock()

	//3. Single backend call, detached from caller cancellation
	workCtx := context.WithoutCancel(ctx)
	resp, err := d.api.UpdateBag(workCtx, req)
	if err != nil || !resp.Success {
		return Result{}, d.fail(workCtx, req, resp, err)
	}

	//4. Success
	d.mu.Lock()
	d.state = StateSucceeded
	d.mu.Unlock()

	// the new AWB is always part of the confirmation
	message := fmt.Sprintf("Sub-bag %s created", req.NewBagAWB)
	if resp.Message != "" {
		message = fmt.Sprintf("%s (sub-bag %s)", resp.Message, req.NewBagAWB)
	}
	d.log.Info("sub-bag created",
		zap.String("old_bag_awb", req.OldBagAWB),
		zap.String("new_bag_awb", req.NewBagAWB),
		zap.Strings("package_awb_numbers", req.PackageAWBNumbers))
	if d.opts.Notifier != nil {
		d.opts.Notifier.Success(workCtx, message)
	}
	if d.opts.Events != nil {
		if err := d.opts.Events.SubBagCreated(workCtx, req); err != nil {
			d.log.Warn("failed to publish sub-bag event", zap.Error(err))
		}
	}

	d.opts.Sleep(d.opts.SuccessDelay)

	d.mu.Lock()
	d.resetLocked()
	d.mu.Unlock()

	if d.opts.Refetch != nil {
		if err := d.opts.Refetch(workCtx); err != nil {
			d.log.Warn("failed to refetch bags after split", zap.Error(err))
		}
	}
	return Result{NewBagAWB: req.NewBagAWB, Message: message}, nil
}

func (d *Dialog) fail(ctx context.Context, req contracts.SubBagTransferRequest, resp contracts.UpdateBagResponse, cause error) error {
	message := genericFailureMessage
	if cause == nil && resp.Message != "" {
		message = resp.Message
	}

	d.mu.Lock()
	d.state = StateFailed
	d.mu.Unlock()

	d.log.Error("sub-bag submission failed",
		zap.String("old_bag_awb", req.OldBagAWB),
		zap.String("new_bag_awb", req.NewBagAWB),
		zap.String("message", resp.Message),
		zap.Error(cause))
	if d.opts.Notifier != nil {
		d.opts.Notifier.Error(ctx, message)
	}

	d.mu.Lock()
	// the operator may have closed or resubmitted while the error was shown
	if d.state == StateFailed {
		d.state = StateEditing
	}
	d.mu.Unlock()
	return &SubmitError{Message: message, Err: cause}
}

// editableLocked allows edits while editing and after a failed submission,
// whose form is still on screen.
func (d *Dialog) editableLocked() error {
	switch d.state {
	case StateEditing, StateFailed:
		return nil
	case StateSubmitting, StateSucceeded:
		return ErrSubmissionInFlight
	default:
		return ErrDialogClosed
	}
}

// syncSelectionLocked rebuilds Selected in the bag's package order. An AWB
// listed twice in the bag is selected once.
func (d *Dialog) syncSelectionLocked() {
	selected := make([]string, 0, len(d.selected))
	seen := make(map[string]bool, len(d.selected))
	for _, awb := range d.form.SourceBag.PackageAWBNos {
		if d.selected[awb] && !seen[awb] {
			seen[awb] = true
			selected = append(selected, awb)
		}
	}
	d.form.Selected = selected
}

func (d *Dialog) resetLocked() {
	d.state = StateClosed
	d.form = Form{}
	d.selected = nil
}
