package main

import (
	"testing"
)

func TestBuildAppSilent(t *testing.T) {
	a, err := buildApp(options{silent: true, storeKind: "memory", fps: 30})
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	defer a.close()

	if a.engine == nil {
		t.Fatal("expected engine")
	}
	if a.player != nil {
		t.Fatal("expected no player in silent mode")
	}
	if a.synth == nil {
		t.Fatal("expected synthetic signal in silent mode")
	}
	if a.bridge != nil {
		t.Fatal("expected no bridge without -serve")
	}
	if len(a.engine.ParameterIDs()) == 0 {
		t.Fatal("expected default parameters registered")
	}
}

func TestBuildAppWithBridge(t *testing.T) {
	a, err := buildApp(options{silent: true, storeKind: "memory", fps: 30, serveAddr: ":0"})
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	defer a.close()

	if a.bridge == nil {
		t.Fatal("expected bridge server")
	}
}

func TestBuildAppRejectsUnknownStore(t *testing.T) {
	if _, err := buildApp(options{silent: true, storeKind: "bogus"}); err == nil {
		t.Fatal("expected error for unknown store backend")
	}
}

func TestBuildAppRejectsMissingFile(t *testing.T) {
	if _, err := buildApp(options{file: "definitely-missing.mp3", storeKind: "memory"}); err == nil {
		t.Fatal("expected error for missing audio file")
	}
}
