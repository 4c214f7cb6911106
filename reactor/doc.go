// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the concrete api.Loop implementations: epoll on
// Linux, kqueue on Darwin. loopCore in reactor.go carries the liveness
// counters, ready-poll bookkeeping, and cross-thread async completion
// bridge common to both; the platform files supply only the kernel
// multiplexer fd and its wait-and-dispatch loop.
package reactor
