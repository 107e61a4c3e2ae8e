package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/remi/shift-exchange/pkg/models"
)

// getAssignment reads one assignment map entry with a strongly consistent read.
// A nil assignment with a nil error means the entry is absent.
func (s *Store) getAssignment(ctx context.Context, tenant, userID string, slot models.Slot) (*models.Assignment, error) {
	key, err := attributevalue.MarshalMap(map[string]string{
		"user_key": userPartitionKey(tenant, userID),
		"slot_key": slot.Key(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal assignment key: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.AssignmentsTableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var assignment models.Assignment
	if err := attributevalue.UnmarshalMap(result.Item, &assignment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assignment: %w", err)
	}

	return &assignment, nil
}

// ReadAssignment retrieves the shift a user currently holds at a slot.
func (s *Store) ReadAssignment(ctx context.Context, tenant, userID string, slot models.Slot) (*models.Assignment, error) {
	return s.getAssignment(ctx, tenant, userID, slot)
}

// WriteAssignment replaces the entry for the assignment's user and slot.
// This is the scheduling subsystem's write path; entries touched by an open
// exchange are rewritten only inside match and revert commits.
func (s *Store) WriteAssignment(ctx context.Context, assignment *models.Assignment) error {
	assignment.Version++
	assignment.UpdatedAt = time.Now()

	item, err := attributevalue.MarshalMap(newAssignmentItem(assignment))
	if err != nil {
		return fmt.Errorf("failed to marshal assignment: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.AssignmentsTableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to write assignment to DynamoDB: %w", err)
	}

	return nil
}

// ClearAssignment removes the entry for a user and slot.
func (s *Store) ClearAssignment(ctx context.Context, tenant, userID string, slot models.Slot) error {
	key, err := attributevalue.MarshalMap(map[string]string{
		"user_key": userPartitionKey(tenant, userID),
		"slot_key": slot.Key(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal assignment key for deletion: %w", err)
	}

	_, err = s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.AssignmentsTableName),
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete assignment from DynamoDB: %w", err)
	}

	return nil
}
