// Package memory provides the memory layers used by self-improving agents.
//
// EpisodicMemory persists lessons and success patterns across task runs on
// top of a pluggable record store, keyed by task tag and retrieved most
// recent first. ConversationBuffer keeps a bounded in-process window of chat
// turns for multi-turn sessions.
package memory
