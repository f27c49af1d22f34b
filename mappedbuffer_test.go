package membuf

import (
	"errors"
	"os"
	"path"
	"testing"
)

func TestMappedBuffer(t *testing.T) {
	b, err := MapNamed("membuf_mappedbuffer_test.tmp", 10)
	if err != nil {
		t.Error("Cannot proceed with test as cannot create buffer\n", err)
		return
	}
	loc := path.Join(ScratchDir, "membuf_mappedbuffer_test.tmp")

	if _, err = os.Stat(loc); err != nil {
		t.Errorf("No file created at %v despite the buffer being initialized", loc)
		return
	}

	if !b.IsMapped() || !b.IsDirect() {
		t.Error("mapped buffer not reporting as mapped")
	}

	b.MustSetPosition(5)
	if err := b.Put('x'); err != nil {
		t.Error("Cannot write to mapped buffer")
		return
	}

	if err := b.Force(); err != nil {
		t.Error(err)
	}

	data, err := os.ReadFile(loc)
	if err != nil {
		t.Error("Cannot read data from memory mapped file")
		return
	}
	if data[5] != 'x' {
		t.Error("Data written in buffer not getting reflected in file")
	}

	err = b.Unmap(true)
	if err != nil {
		t.Error(err)
	}

	if _, err := os.Stat(loc); err == nil {
		t.Error("Memory mapped file not getting deleted on Unmap")
	}
}

func TestMapExistingFile(t *testing.T) {
	loc := path.Join(t.TempDir(), "membuf_map_test.tmp")
	if err := os.WriteFile(loc, []byte("hello membuf"), 0644); err != nil {
		t.Error(err)
		return
	}

	f, err := os.Open(loc)
	if err != nil {
		t.Error(err)
		return
	}
	defer f.Close()

	b, err := Map(f, MapReadOnly, 0, 5)
	if err != nil {
		t.Error("Cannot proceed with test as cannot map file\n", err)
		return
	}
	defer b.Unmap(false)

	if !b.IsReadOnly() {
		t.Error("read-only mapping produced a writable buffer")
	}
	if err := b.Put('x'); !errors.Is(err, ErrReadOnlyBuffer) {
		t.Errorf("expected ErrReadOnlyBuffer, got %v", err)
	}

	dst := make([]byte, 5)
	if err := b.GetBytes(dst); err != nil {
		t.Error(err)
	}
	if string(dst) != "hello" {
		t.Errorf("expected %q, got %q", "hello", string(dst))
	}
}

func TestResidencyControl(t *testing.T) {
	b, err := MapNamed("membuf_residency_test.tmp", 4096*4)
	if err != nil {
		t.Error("Cannot proceed with test as cannot create buffer\n", err)
		return
	}
	defer b.Unmap(true)

	if err := b.Load(); err != nil {
		t.Error(err)
	}

	loaded, err := b.IsLoaded()
	if err != nil {
		t.Error(err)
	}
	if !loaded {
		t.Error("mapping not resident immediately after Load")
	}

	// residency operations work through derived views of the mapping
	b.MustSetPosition(10)
	s := b.Slice()
	if _, err := s.IsLoaded(); err != nil {
		t.Errorf("IsLoaded failed through a slice: %v", err)
	}
	if err := s.Load(); err != nil {
		t.Errorf("Load failed through a slice: %v", err)
	}

	s.MustPut('y')
	if err := s.Force(); err != nil {
		t.Errorf("Force failed through a slice: %v", err)
	}
}

func TestForceReadOnlyNoop(t *testing.T) {
	loc := path.Join(t.TempDir(), "membuf_force_test.tmp")
	if err := os.WriteFile(loc, make([]byte, 64), 0644); err != nil {
		t.Error(err)
		return
	}

	f, err := os.Open(loc)
	if err != nil {
		t.Error(err)
		return
	}
	defer f.Close()

	b, err := Map(f, MapReadOnly, 0, 64)
	if err != nil {
		t.Error(err)
		return
	}
	defer b.Unmap(false)

	// flushing an unwritable mapping is a no-op, not an error
	if err := b.Force(); err != nil {
		t.Error(err)
	}
}

func TestResidencyOnHeapBuffer(t *testing.T) {
	b := MustAllocate(10)

	if _, err := b.IsLoaded(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported from IsLoaded, got %v", err)
	}
	if err := b.Load(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported from Load, got %v", err)
	}
	if err := b.Force(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported from Force, got %v", err)
	}
}
