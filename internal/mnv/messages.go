//go:build !mnv_nomessages

package mnv

const includeMessages = true
