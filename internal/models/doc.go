// Package models defines the persisted document shapes for GameMate.
//
// # Documents
//
// The backend stores everything as JSON documents in a hierarchical
// document store (see internal/storage):
//   - Group:   groups/{groupId}
//   - Event:   groups/{groupId}/events/{eventId}
//   - Message: groups/{groupId}/chats/{messageId}
//   - User:    users/{userId}
//
// JSON keys are camelCase so documents written by the mobile client and by
// this backend look the same.
//
// # Design Principles
//
//  1. **Ids live outside the data**: the document id is the last path segment,
//     so ID fields are not serialized.
//  2. **Relationships by id**: groups hold member user ids, events hold the
//     host user id. Display names are resolved on read.
//  3. **Denormalized arrays**: proposals, votes and ratings are embedded in
//     the event document and written back as whole arrays.
package models
