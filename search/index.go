//go:generate go run go.uber.org/mock/mockgen -source=index.go -destination=../mocks/mock_search_index.go -package=mocks
// Package search maintains a Bluge full-text index over message content.
//
// The index is a derived view: the badger records stay the source of truth
// and the service re-reads and visibility-filters every hit before returning
// it to a caller.
package search

import (
	"context"
	"log/slog"

	"workspace-chat/domain"

	"github.com/abadojack/whatlanggo"
	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

type IIndex interface {
	IndexMessage(message domain.Message) error
	RemoveMessage(messageID uuid.UUID) error
	Search(ctx context.Context, workspaceID uuid.UUID, terms string, limit int) ([]uuid.UUID, error)
}

type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewIndex(writer *bluge.Writer, log *slog.Logger) *Index {
	return &Index{writer: writer, log: log}
}

// IndexMessage upserts the message document. The detected language is
// indexed alongside the content as a search facet.
func (i *Index) IndexMessage(message domain.Message) error {
	info := whatlanggo.Detect(message.Content)

	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewKeywordField("workspace", message.WorkspaceID.String())).
		AddField(bluge.NewTextField("content", message.Content)).
		AddField(bluge.NewKeywordField("lang", whatlanggo.LangToString(info.Lang)))

	return i.writer.Update(doc.ID(), doc)
}

func (i *Index) RemoveMessage(messageID uuid.UUID) error {
	return i.writer.Delete(bluge.Identifier(messageID.String()))
}

// Search returns the IDs of messages in the workspace matching the terms,
// best match first.
func (i *Index) Search(ctx context.Context, workspaceID uuid.UUID, terms string, limit int) ([]uuid.UUID, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			i.log.Warn("Failed to close index reader", "error", err)
		}
	}()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(terms).SetField("content")).
		AddMust(bluge.NewTermQuery(workspaceID.String()).SetField("workspace"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				if id, err := uuid.Parse(string(value)); err == nil {
					ids = append(ids, id)
				}
			}
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}
