// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package source resolves dataset specs into readable inputs. A spec is a
// local file path, "-" for stdin, or an s3://bucket/key URL (optionally
// pinned with ?versionId=...).
package source
