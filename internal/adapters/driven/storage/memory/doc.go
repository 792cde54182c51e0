// Package memory provides in-memory implementations of the driven ports.
// They back service and CLI tests; nothing here touches disk or git.
package memory
