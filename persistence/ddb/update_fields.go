/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/recordstore/errors"
)

// buildUpdateExpression transforms a map of field->value into:
//   - an update expression (e.g., "SET #f1 = :v1, #f2 = :v2")
//   - a corresponding map of expression attribute names
//   - a corresponding map of expression attribute values
func buildUpdateExpression(updates map[string]interface{}) (string,
	map[string]string,
	map[string]types.AttributeValue,
	error) {

	if len(updates) == 0 {
		return "", nil, nil, errors.NewValidationError("updates", "no updates provided")
	}

	setClauses := make([]string, 0, len(updates))
	exprAttrNames := make(map[string]string)
	exprAttrValues := make(map[string]types.AttributeValue)

	i := 0
	for field, val := range updates {
		placeholderName := fmt.Sprintf("#f%d", i)
		placeholderValue := fmt.Sprintf(":v%d", i)

		setClauses = append(setClauses, fmt.Sprintf("%s = %s", placeholderName, placeholderValue))
		exprAttrNames[placeholderName] = field

		switch typedVal := val.(type) {
		case string:
			exprAttrValues[placeholderValue] = &types.AttributeValueMemberS{Value: typedVal}
		case bool:
			exprAttrValues[placeholderValue] = &types.AttributeValueMemberBOOL{Value: typedVal}
		case int, int32, int64, float32, float64:
			exprAttrValues[placeholderValue] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%v", typedVal)}
		default:
			return "", nil, nil, errors.NewValidationError(field, "unhandled update value type")
		}

		i++
	}

	updateExpr := "SET " + strings.Join(setClauses, ", ")
	return updateExpr, exprAttrNames, exprAttrValues, nil
}

// UpdateFields sets individual attributes of the record with the given id
// without rewriting the whole item, optionally guarded by a condition
// expression. An empty condition defaults to requiring that the record
// exists. This is a DynamoDB-specific extra beyond the Store contract,
// useful for optimistic-locking style updates.
func (s *Store[T]) UpdateFields(ctx context.Context, id string, updates map[string]interface{}, condition string) error {
	if err := s.checkOpen("updateFields"); err != nil {
		return err
	}

	key, err := s.keyForID(id)
	if err != nil {
		return err
	}

	updateExpr, exprAttrNames, exprAttrValues, err := buildUpdateExpression(updates)
	if err != nil {
		return err
	}

	defaulted := condition == ""
	if defaulted {
		condition = "attribute_exists(PK)"
	}

	input := &sdk.UpdateItemInput{
		TableName:                 &s.tableName,
		Key:                       key,
		UpdateExpression:          &updateExpr,
		ExpressionAttributeNames:  exprAttrNames,
		ExpressionAttributeValues: exprAttrValues,
		ConditionExpression:       &condition,
		ReturnValues:              types.ReturnValueNone,
	}

	_, err = s.client.UpdateItem(ctx, input)
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if stderrors.As(err, &cfe) {
			if defaulted {
				return errors.NewNotFoundError(s.recordType, id)
			}
			return errors.NewConditionFailedError("updateFields", condition)
		}
		return fmt.Errorf("UpdateFields failed: %w", err)
	}

	return nil
}
