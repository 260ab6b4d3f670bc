package repository

import (
	"fmt"
	"strings"

	"github.com/ofirte/wedding-sub001/internal/infra/docstore"
)

// Collection names. All but invites and telegramChats live under a wedding document.
const (
	weddingsCollection      = "weddings"
	inviteesCollection      = "invitees"
	responsesCollection     = "rsvpStatuses"
	rsvpConfigCollection    = "rsvpConfig"
	budgetCollection        = "budget"
	tasksCollection         = "tasks"
	invitesCollection       = "invites"
	telegramChatsCollection = "telegramChats"
	defaultRSVPConfigDocID  = "default"
)

func checkID(kind, id string) error {
	if id == "" || strings.Contains(id, "/") {
		return fmt.Errorf("%w: bad %s id %q", docstore.ErrInvalidPath, kind, id)
	}
	return nil
}

func weddingCollection(weddingID, collection string) (string, error) {
	if err := checkID("wedding", weddingID); err != nil {
		return "", err
	}
	return docstore.Join(weddingsCollection, weddingID, collection), nil
}

func weddingDocument(weddingID, collection, id string) (string, error) {
	base, err := weddingCollection(weddingID, collection)
	if err != nil {
		return "", err
	}
	if err := checkID(collection, id); err != nil {
		return "", err
	}
	return docstore.Join(base, id), nil
}
