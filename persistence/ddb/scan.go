/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/recordstore/storagemodels"
)

// scannedItem pairs a decoded record with the raw key attributes needed to
// delete it.
type scannedItem[T any] struct {
	item T
	key  map[string]types.AttributeValue
}

// scanAll reads every item of this record type from the table, following
// scan pagination. Filters are Go predicates, so they run client-side over
// the scanned set.
func (s *Store[T]) scanAll(ctx context.Context) ([]scannedItem[T], error) {
	filterExpr := fmt.Sprintf("%s = :et", entityTypeAttr)
	exprVals := map[string]types.AttributeValue{
		":et": &types.AttributeValueMemberS{Value: s.recordType},
	}

	var results []scannedItem[T]
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.client.Scan(ctx, &sdk.ScanInput{
			TableName:                 &s.tableName,
			FilterExpression:          &filterExpr,
			ExpressionAttributeValues: exprVals,
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		for _, raw := range out.Items {
			var item T
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal scanned record: %w", err)
			}

			key := map[string]types.AttributeValue{}
			for _, attr := range []string{"PK", "SK"} {
				if v, ok := raw[attr]; ok {
					key[attr] = v
				}
			}
			results = append(results, scannedItem[T]{item: item, key: key})
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return results, nil
}

func (s *Store[T]) scanRecords(ctx context.Context) ([]T, error) {
	scanned, err := s.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]T, len(scanned))
	for i, sc := range scanned {
		items[i] = sc.item
	}
	return items, nil
}

// GetPageByFilter answers a paged query by scanning the record set and
// running the shared filter → sort → count → slice pipeline. Without sort
// parameters the page order follows the table scan, which DynamoDB does not
// guarantee to be insertion order; callers wanting deterministic pages
// should pass sort parameters.
func (s *Store[T]) GetPageByFilter(ctx context.Context, filter storagemodels.Filter[T], sort storagemodels.SortParams[T], paging *storagemodels.PagingParams) (storagemodels.DataPage[T], error) {
	if err := s.checkOpen("getPageByFilter"); err != nil {
		return storagemodels.DataPage[T]{}, err
	}

	items, err := s.scanRecords(ctx)
	if err != nil {
		return storagemodels.DataPage[T]{}, err
	}
	return storagemodels.Page(items, filter, sort, paging, s.maxPageSize), nil
}

// GetListByFilter returns every matching record, sorted.
func (s *Store[T]) GetListByFilter(ctx context.Context, filter storagemodels.Filter[T], sort storagemodels.SortParams[T]) ([]T, error) {
	if err := s.checkOpen("getListByFilter"); err != nil {
		return nil, err
	}

	items, err := s.scanRecords(ctx)
	if err != nil {
		return nil, err
	}
	return storagemodels.List(items, filter, sort), nil
}

// GetCountByFilter returns the number of matching records.
func (s *Store[T]) GetCountByFilter(ctx context.Context, filter storagemodels.Filter[T]) (int64, error) {
	if err := s.checkOpen("getCountByFilter"); err != nil {
		return 0, err
	}

	items, err := s.scanRecords(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	for _, item := range items {
		if filter == nil || filter(item) {
			count++
		}
	}
	return count, nil
}

// GetOneRandom returns a uniformly random matching record, or nil when
// nothing matches.
func (s *Store[T]) GetOneRandom(ctx context.Context, filter storagemodels.Filter[T]) (*T, error) {
	if err := s.checkOpen("getOneRandom"); err != nil {
		return nil, err
	}

	items, err := s.scanRecords(ctx)
	if err != nil {
		return nil, err
	}

	matched := storagemodels.List(items, filter, nil)
	if len(matched) == 0 {
		return nil, nil
	}
	item := matched[rand.Intn(len(matched))]
	return &item, nil
}

// DeleteByFilter removes every matching record and reports how many were
// removed. The victim set is fixed by a full scan before any deletion.
func (s *Store[T]) DeleteByFilter(ctx context.Context, filter storagemodels.Filter[T]) (int64, error) {
	if err := s.checkOpen("deleteByFilter"); err != nil {
		return 0, err
	}

	scanned, err := s.scanAll(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	for _, sc := range scanned {
		if filter != nil && !filter(sc.item) {
			continue
		}
		if _, err := s.client.DeleteItem(ctx, &sdk.DeleteItemInput{
			TableName: &s.tableName,
			Key:       sc.key,
		}); err != nil {
			return count, fmt.Errorf("failed to delete record: %w", err)
		}
		count++
	}
	return count, nil
}

// Clear removes every record of this type from the table.
func (s *Store[T]) Clear(ctx context.Context) error {
	if err := s.checkOpen("clear"); err != nil {
		return err
	}

	_, err := s.DeleteByFilter(ctx, nil)
	return err
}
