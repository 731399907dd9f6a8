package mandelzoom

import (
	"errors"
	"testing"
)

// closableAccelerator counts Close calls on top of the fake.
type closableAccelerator struct {
	fakeAccelerator
	closed int
}

func (c *closableAccelerator) Close() { c.closed++ }

func TestRegisterAccelerator(t *testing.T) {
	swapAccelerator(t, nil)

	if err := RegisterAccelerator(nil); err == nil {
		t.Fatal("RegisterAccelerator(nil) succeeded")
	}

	boom := errors.New("no device")
	if err := RegisterAccelerator(&fakeAccelerator{initErr: boom}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the Init failure", err)
	}
	if Accelerator() != nil {
		t.Fatal("a failed Init left the accelerator registered")
	}

	first := &closableAccelerator{}
	if err := RegisterAccelerator(first); err != nil {
		t.Fatalf("RegisterAccelerator: %v", err)
	}
	if Accelerator() != KernelAccelerator(first) {
		t.Fatal("Accelerator() does not return the registered instance")
	}

	second := &closableAccelerator{}
	if err := RegisterAccelerator(second); err != nil {
		t.Fatalf("RegisterAccelerator (replace): %v", err)
	}
	if first.closed != 1 {
		t.Errorf("replaced accelerator closed %d times, want 1", first.closed)
	}
	if Accelerator() != KernelAccelerator(second) {
		t.Fatal("replacement did not take effect")
	}
}

func TestSetAcceleratorDeviceProvider(t *testing.T) {
	swapAccelerator(t, nil)
	if err := SetAcceleratorDeviceProvider(struct{}{}); err != nil {
		t.Fatalf("no accelerator registered: %v", err)
	}

	// An accelerator without device sharing is silently skipped.
	swapAccelerator(t, &fakeAccelerator{})
	if err := SetAcceleratorDeviceProvider(struct{}{}); err != nil {
		t.Fatalf("provider-unaware accelerator: %v", err)
	}
}
