// Package cleanup implements the post-migration cleanup workflow.
//
// After an org VDC has been migrated from NSX-V to NSX-T, cleanup tears
// down the obsolete source side and promotes the target side to its
// final identity. The workflow is a fixed, strictly ordered list of
// steps driven by Run: discovery first, then validation gates, then the
// irreversible teardown and rename steps. The first failing step aborts
// the run; already-applied remote mutations are not rolled back.
//
// # Core Types
//
// Context carries configuration, accumulated state, the two remote
// clients, and the observer. State holds what one step produces for a
// later step (resolved ids, the captured edge gateway payload, the
// target network list). Step is one named workflow entry.
package cleanup
