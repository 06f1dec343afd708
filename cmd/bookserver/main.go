/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Command bookserver runs the collaboration backend: shared books, question
// pools, answers, photo uploads, and the commit ledger over Postgres.
//
// Configuration comes from the environment: DATABASE_URL (or GBS_PG_DSN),
// PORT/ADDR, GBS_AUTH_SECRET, GBS_MAX_UPLOAD_BYTES.
package main

import (
	"fmt"
	"os"

	"gobookstudio/internal/backend"
	applog "gobookstudio/internal/log"
	"gobookstudio/internal/version"
)

func main() {
	applog.Init(applog.FromEnv())
	args := os.Args
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println(version.String())
			return
		}
	}
	if err := backend.Start(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
