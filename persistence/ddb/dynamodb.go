/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/recordstore/errors"
	"github.com/suparena/recordstore/persistence"
	"github.com/suparena/recordstore/persistence/memory"
	"github.com/suparena/recordstore/registry"
)

// entityTypeAttr tags every persisted item so scans can tell record kinds
// apart in a single-table design.
const entityTypeAttr = "EntityType"

// Store implements the RecordStore persistence contract on AWS DynamoDB.
// Records live in a single table addressed through the index map registered
// for T; filtered queries scan the table and run the shared query pipeline
// client-side, since filters are arbitrary Go predicates.
type Store[T persistence.Identifiable[T]] struct {
	client      *sdk.Client
	tableName   string
	recordType  string
	maxPageSize int64
	opened      atomic.Bool
	closed      atomic.Bool
}

// Option configures a Store.
type Option func(*options)

type options struct {
	maxPageSize int64
}

// WithMaxPageSize overrides the default page size bound.
func WithMaxPageSize(max int64) Option {
	return func(o *options) {
		if max > 0 {
			o.maxPageSize = max
		}
	}
}

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// NewClient initializes a DynamoDB client using static AWS credentials.
func NewClient(awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg), nil
}

// New constructs a DynamoDB-backed store for type T using static credentials.
func New[T persistence.Identifiable[T]](awsAccessKey, awsSecretKey, awsRegion, tableName string, opts ...Option) (*Store[T], error) {
	client, err := NewClient(awsAccessKey, awsSecretKey, awsRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	return NewFromClient[T](client, tableName, opts...), nil
}

// NewFromClient constructs a DynamoDB-backed store for type T on an existing
// client.
func NewFromClient[T persistence.Identifiable[T]](client *sdk.Client, tableName string, opts ...Option) *Store[T] {
	o := options{maxPageSize: memory.DefaultMaxPageSize}
	for _, opt := range opts {
		opt(&o)
	}

	var zero T
	return &Store[T]{
		client:      client,
		tableName:   tableName,
		recordType:  fmt.Sprintf("%T", zero),
		maxPageSize: o.maxPageSize,
	}
}

// Open verifies that the backing table exists.
func (s *Store[T]) Open(ctx context.Context) error {
	if s.closed.Load() {
		return errors.NewClosedStoreError("open")
	}

	_, err := s.client.DescribeTable(ctx, &sdk.DescribeTableInput{
		TableName: &s.tableName,
	})
	if err != nil {
		return fmt.Errorf("failed to describe table %q: %w", s.tableName, err)
	}

	s.opened.Store(true)
	return nil
}

// IsOpen reports whether Open has completed on this store.
func (s *Store[T]) IsOpen() bool {
	return s.opened.Load() && !s.closed.Load()
}

// Close shuts the store down. DynamoDB writes are already durable per
// operation, so there is no final flush.
func (s *Store[T]) Close(ctx context.Context) error {
	if s.closed.Load() {
		return errors.NewClosedStoreError("close")
	}
	s.closed.Store(true)
	s.opened.Store(false)
	return nil
}

func (s *Store[T]) checkOpen(op string) error {
	if s.closed.Load() {
		return errors.NewClosedStoreError(op)
	}
	return nil
}

// indexMap returns the registered index map for T.
func (s *Store[T]) indexMap() (map[string]string, error) {
	m, ok := registry.GetIndexMap[T]()
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrNoIndexMap, s.recordType)
	}
	return m, nil
}

// expandMacros substitutes record field values into index map templates.
func expandMacros(indexMap map[string]string, keysInput any) (map[string]string, error) {
	av, err := attributevalue.MarshalMap(keysInput)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal keysInput: %w", err)
	}

	res := make(map[string]string, len(indexMap))

	for fieldName, template := range indexMap {
		expanded := macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			key := strings.Trim(macro, "{}")

			val, ok := av[key]
			if !ok {
				return ""
			}

			switch tv := val.(type) {
			case *types.AttributeValueMemberS:
				return tv.Value
			case *types.AttributeValueMemberN:
				return tv.Value
			case *types.AttributeValueMemberBOOL:
				return fmt.Sprintf("%v", tv.Value)
			default:
				return ""
			}
		})
		res[fieldName] = expanded
	}

	return res, nil
}

// expandStringKey replaces every macro in the index map values with the
// provided record id.
func expandStringKey(indexMap map[string]string, key string) map[string]string {
	expanded := make(map[string]string, len(indexMap))
	for field, template := range indexMap {
		expanded[field] = macroPattern.ReplaceAllString(template, key)
	}
	return expanded
}

// buildKeyFromExpanded builds the DynamoDB primary key from an expanded
// index map. The expanded map must carry non-empty PK and SK values.
func buildKeyFromExpanded(expanded map[string]string) (map[string]types.AttributeValue, error) {
	pk, okPK := expanded["PK"]
	sk, okSK := expanded["SK"]

	if !okPK || !okSK || pk == "" || sk == "" {
		return nil, fmt.Errorf("expanded index map missing valid PK or SK")
	}

	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}, nil
}

// keyForID builds the table key addressing the record with the given id.
func (s *Store[T]) keyForID(id string) (map[string]types.AttributeValue, error) {
	indexMap, err := s.indexMap()
	if err != nil {
		return nil, err
	}
	return buildKeyFromExpanded(expandStringKey(indexMap, id))
}

// marshalItem marshals a record together with its expanded index attributes
// and the entity type tag.
func (s *Store[T]) marshalItem(item T) (map[string]types.AttributeValue, error) {
	indexMap, err := s.indexMap()
	if err != nil {
		return nil, err
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	expanded, err := expandMacros(indexMap, item)
	if err != nil {
		return nil, err
	}
	for k, v := range expanded {
		av[k] = &types.AttributeValueMemberS{Value: v}
	}
	av[entityTypeAttr] = &types.AttributeValueMemberS{Value: s.recordType}

	return av, nil
}

// Create inserts a record, generating an id when the supplied one is empty.
// A colliding explicit id fails with errors.ErrDuplicateKey.
func (s *Store[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	if err := s.checkOpen("create"); err != nil {
		return zero, err
	}

	if item.GetID() == "" {
		item = item.WithID(persistence.NewID())
	}

	av, err := s.marshalItem(item)
	if err != nil {
		return zero, err
	}

	cond := "attribute_not_exists(PK)"
	_, err = s.client.PutItem(ctx, &sdk.PutItemInput{
		TableName:           &s.tableName,
		Item:                av,
		ConditionExpression: &cond,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if stderrors.As(err, &cfe) {
			return zero, errors.NewDuplicateKeyError(s.recordType, item.GetID())
		}
		return zero, fmt.Errorf("PutItem failed: %w", err)
	}
	return item, nil
}

// GetOneByID retrieves a single record, or nil when no item exists.
func (s *Store[T]) GetOneByID(ctx context.Context, id string) (*T, error) {
	if err := s.checkOpen("getOneByID"); err != nil {
		return nil, err
	}

	keyMap, err := s.keyForID(id)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &s.tableName,
		Key:       keyMap,
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	result := new(T)
	if err := attributevalue.UnmarshalMap(out.Item, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return result, nil
}

// GetListByIDs returns records in input id order, skipping missing ids.
func (s *Store[T]) GetListByIDs(ctx context.Context, ids []string) ([]T, error) {
	if err := s.checkOpen("getListByIDs"); err != nil {
		return nil, err
	}

	result := make([]T, 0, len(ids))
	for _, id := range ids {
		item, err := s.GetOneByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if item != nil {
			result = append(result, *item)
		}
	}
	return result, nil
}

// Update replaces the stored record carrying the same id. A missing id
// fails with errors.ErrNotFound.
func (s *Store[T]) Update(ctx context.Context, item T) (T, error) {
	var zero T
	if err := s.checkOpen("update"); err != nil {
		return zero, err
	}

	av, err := s.marshalItem(item)
	if err != nil {
		return zero, err
	}

	cond := "attribute_exists(PK)"
	_, err = s.client.PutItem(ctx, &sdk.PutItemInput{
		TableName:           &s.tableName,
		Item:                av,
		ConditionExpression: &cond,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if stderrors.As(err, &cfe) {
			return zero, errors.NewNotFoundError(s.recordType, item.GetID())
		}
		return zero, fmt.Errorf("PutItem failed: %w", err)
	}
	return item, nil
}

// UpdatePartially applies a transformation to the stored record. The id is
// reasserted after the transformation.
func (s *Store[T]) UpdatePartially(ctx context.Context, id string, apply func(T) T) (*T, error) {
	if err := s.checkOpen("updatePartially"); err != nil {
		return nil, err
	}
	if apply == nil {
		return nil, errors.NewValidationError("apply", "transformation must not be nil")
	}

	current, err := s.GetOneByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, errors.NewNotFoundError(s.recordType, id)
	}

	updated, err := s.Update(ctx, apply(*current).WithID(id))
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteByID removes a record and returns the deleted value. A missing id
// fails with errors.ErrNotFound.
func (s *Store[T]) DeleteByID(ctx context.Context, id string) (*T, error) {
	if err := s.checkOpen("deleteByID"); err != nil {
		return nil, err
	}

	keyMap, err := s.keyForID(id)
	if err != nil {
		return nil, err
	}

	out, err := s.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:    &s.tableName,
		Key:          keyMap,
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete record: %w", err)
	}
	if len(out.Attributes) == 0 {
		return nil, errors.NewNotFoundError(s.recordType, id)
	}

	deleted := new(T)
	if err := attributevalue.UnmarshalMap(out.Attributes, deleted); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deleted record: %w", err)
	}
	return deleted, nil
}

// DeleteByIDs removes the records with the given ids, skipping missing ones.
func (s *Store[T]) DeleteByIDs(ctx context.Context, ids []string) error {
	if err := s.checkOpen("deleteByIDs"); err != nil {
		return err
	}

	for _, id := range ids {
		if _, err := s.DeleteByID(ctx, id); err != nil && !errors.IsNotFound(err) {
			return err
		}
	}
	return nil
}

var _ persistence.Store[ddbRecord] = (*Store[ddbRecord])(nil)

// ddbRecord exists only for the compile-time interface assertion above.
type ddbRecord struct{ ID string }

func (r ddbRecord) GetID() string              { return r.ID }
func (r ddbRecord) WithID(id string) ddbRecord { r.ID = id; return r }
