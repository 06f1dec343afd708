/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package storage

import (
	"bytes"
	"context"
	"testing"
)

func TestPreviewPutGetRoundTrip(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	blob := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	if err := PutPreview(ctx, root, 1, ThumbVariant(256, 256), blob); err != nil {
		t.Fatalf("PutPreview: %v", err)
	}
	got, err := GetPreview(ctx, root, 1, ThumbVariant(256, 256))
	if err != nil {
		t.Fatalf("GetPreview: %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Fatalf("blob mismatch")
	}
	// Miss returns nil, nil.
	got, err = GetPreview(ctx, root, 2, ThumbVariant(256, 256))
	if err != nil || got != nil {
		t.Fatalf("expected cache miss, got %v %v", got, err)
	}
}

func TestPreviewUpsertReplaces(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	v := ThumbVariant(128, 128)
	if err := PutPreview(ctx, root, 1, v, []byte("old")); err != nil {
		t.Fatalf("put old: %v", err)
	}
	if err := PutPreview(ctx, root, 1, v, []byte("newer")); err != nil {
		t.Fatalf("put new: %v", err)
	}
	got, err := GetPreview(ctx, root, 1, v)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "newer" {
		t.Fatalf("upsert did not replace: %q", got)
	}
	total, err := TotalPreviewBytes(ctx, root)
	if err != nil {
		t.Fatalf("TotalPreviewBytes: %v", err)
	}
	if total != int64(len("newer")) {
		t.Fatalf("size tracking wrong: %d", total)
	}
}

func TestPreviewEvictionLRU(t *testing.T) {
	t.Setenv("GBS_PREVIEWS_MAX_BYTES", "20")
	root := t.TempDir()
	ctx := context.Background()
	ten := bytes.Repeat([]byte{1}, 10)
	if err := PutPreview(ctx, root, 1, "a", ten); err != nil {
		t.Fatalf("put 1: %v", err)
	}
	if err := PutPreview(ctx, root, 2, "a", ten); err != nil {
		t.Fatalf("put 2: %v", err)
	}
	// Touch page 1 so page 2 becomes the LRU victim.
	if _, err := GetPreview(ctx, root, 1, "a"); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if err := PutPreview(ctx, root, 3, "a", ten); err != nil {
		t.Fatalf("put 3: %v", err)
	}
	total, err := TotalPreviewBytes(ctx, root)
	if err != nil {
		t.Fatalf("TotalPreviewBytes: %v", err)
	}
	if total > 20 {
		t.Fatalf("cap not enforced: %d bytes", total)
	}
	if got, _ := GetPreview(ctx, root, 3, "a"); got == nil {
		t.Fatalf("newest entry evicted")
	}
}

func TestGetOrCreatePreviewGenerates(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	calls := 0
	gen := func(context.Context) ([]byte, error) {
		calls++
		return []byte("thumb"), nil
	}
	for i := 0; i < 2; i++ {
		got, err := GetOrCreatePreview(ctx, root, 7, ThumbVariant(64, 64), gen)
		if err != nil {
			t.Fatalf("GetOrCreatePreview: %v", err)
		}
		if string(got) != "thumb" {
			t.Fatalf("wrong blob: %q", got)
		}
	}
	if calls != 1 {
		t.Fatalf("generator called %d times, want 1", calls)
	}
}
