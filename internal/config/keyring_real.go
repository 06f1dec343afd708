//go:build !nokeyring

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package config

import "github.com/zalando/go-keyring"

func keyringGet(service, key string) (string, error) { return keyring.Get(service, key) }

func keyringSet(service, key, value string) error { return keyring.Set(service, key, value) }

func keyringDelete(service, key string) error { return keyring.Delete(service, key) }
