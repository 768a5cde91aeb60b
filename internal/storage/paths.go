package storage

import (
	"fmt"
	"strings"
)

// Collection names.
const (
	GroupsCollection = "groups"
	UsersCollection  = "users"
	eventsSegment    = "events"
	chatsSegment     = "chats"
)

// GroupPath returns the path of a group document.
func GroupPath(groupID string) string {
	return GroupsCollection + "/" + groupID
}

// EventsCollection returns the collection holding a group's events.
func EventsCollection(groupID string) string {
	return GroupPath(groupID) + "/" + eventsSegment
}

// EventPath returns the path of an event document.
func EventPath(groupID, eventID string) string {
	return EventsCollection(groupID) + "/" + eventID
}

// ChatsCollection returns the collection holding a group's chat messages.
func ChatsCollection(groupID string) string {
	return GroupPath(groupID) + "/" + chatsSegment
}

// UserPath returns the path of a user document.
func UserPath(userID string) string {
	return UsersCollection + "/" + userID
}

// SplitPath separates a document path into its collection and id.
// A document path has an even number of non-empty segments.
func SplitPath(path string) (collection, id string, err error) {
	segments := strings.Split(path, "/")
	if len(segments)%2 != 0 {
		return "", "", fmt.Errorf("invalid document path %q", path)
	}
	for _, s := range segments {
		if s == "" {
			return "", "", fmt.Errorf("invalid document path %q", path)
		}
	}
	i := strings.LastIndex(path, "/")
	return path[:i], path[i+1:], nil
}

// ValidCollection reports whether path names a collection: an odd number of
// non-empty segments.
func ValidCollection(path string) bool {
	segments := strings.Split(path, "/")
	if len(segments)%2 != 1 {
		return false
	}
	for _, s := range segments {
		if s == "" {
			return false
		}
	}
	return true
}
