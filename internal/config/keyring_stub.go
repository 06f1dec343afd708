//go:build nokeyring

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package config

import "sync"

// In-memory keyring for builds without an OS keychain (CI, containers).
var (
	memKeyringMu sync.Mutex
	memKeyring   = map[string]string{}
)

func keyringGet(service, key string) (string, error) {
	memKeyringMu.Lock()
	defer memKeyringMu.Unlock()
	return memKeyring[service+"/"+key], nil
}

func keyringSet(service, key, value string) error {
	memKeyringMu.Lock()
	defer memKeyringMu.Unlock()
	memKeyring[service+"/"+key] = value
	return nil
}

func keyringDelete(service, key string) error {
	memKeyringMu.Lock()
	defer memKeyringMu.Unlock()
	delete(memKeyring, service+"/"+key)
	return nil
}
