package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/imrishuroy/bakery-storefront/internal/aws"
)

// Store encapsulates idempotency operations against DynamoDB.
type Store struct {
	client     aws.DynamoDBAPI
	tableName  string
	ttlWindow  time.Duration // how long a key is remembered
	staleAfter time.Duration // IN_PROGRESS older than this may be taken over
	nowFunc    func() time.Time
}

// DefaultStaleAfter is well above the API Gateway request timeout, so a live request
// never loses its claim.
const DefaultStaleAfter = 5 * time.Minute

// NewStore returns a configured Store.
// tableName: DynamoDB table name for idempotency entries.
// ttlWindow: TTL window (e.g., 48*time.Hour)
func NewStore(client aws.DynamoDBAPI, tableName string, ttlWindow time.Duration) *Store {
	return &Store{
		client:     client,
		tableName:  tableName,
		ttlWindow:  ttlWindow,
		staleAfter: DefaultStaleAfter,
		nowFunc:    time.Now,
	}
}

// WithStaleAfter sets how long an IN_PROGRESS claim is honored. Zero disables takeover.
func (s *Store) WithStaleAfter(d time.Duration) *Store {
	s.staleAfter = d
	return s
}

// ErrConditionFailed indicates a conditional write failed (e.g., attribute_not_exists)
var ErrConditionFailed = errors.New("conditional check failed")

// Fingerprint hashes a request body so a reused key with a different cart is detected.
func Fingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Begin claims key for a request with the given fingerprint and reports how the caller
// should proceed. The returned record is set for every decision except a fresh Proceed.
func (s *Store) Begin(ctx context.Context, key, requestHash string) (Decision, *Record, error) {
	created, err := s.CreateIfNotExists(ctx, key, requestHash)
	if err != nil {
		return 0, nil, err
	}
	if created {
		return Proceed, nil, nil
	}

	rec, err := s.Get(ctx, key)
	if err != nil {
		return 0, nil, err
	}
	if rec == nil {
		// expired between the put and the get
		if created, err = s.CreateIfNotExists(ctx, key, requestHash); err != nil {
			return 0, nil, err
		}
		if created {
			return Proceed, nil, nil
		}
		return InProgress, &Record{IdempotencyKey: key, Status: StatusInProgress}, nil
	}
	if rec.RequestHash != requestHash {
		return Mismatch, rec, nil
	}

	switch rec.Status {
	case StatusDone:
		return Replay, rec, nil
	case StatusFailed:
		err := s.Reclaim(ctx, key)
		if errors.Is(err, ErrConditionFailed) {
			return InProgress, rec, nil
		}
		if err != nil {
			return 0, nil, err
		}
		return Proceed, rec, nil
	default:
		if s.staleAfter <= 0 || s.nowFunc().Sub(rec.UpdatedAt) <= s.staleAfter {
			return InProgress, rec, nil
		}
		// the owner died before MarkDone/MarkFailed
		err := s.TakeOver(ctx, key)
		if errors.Is(err, ErrConditionFailed) {
			return InProgress, rec, nil
		}
		if err != nil {
			return 0, nil, err
		}
		return Proceed, rec, nil
	}
}

// CreateIfNotExists creates an idempotency record with status IN_PROGRESS if the key does not exist.
// Returns (created=true, nil) if successfully created.
// Returns (created=false, nil) if the record already exists (caller should Get to inspect).
// Returns (created=false, err) on other errors.
func (s *Store) CreateIfNotExists(ctx context.Context, key, requestHash string) (bool, error) {
	now := s.nowFunc().UTC()
	rec := Record{
		IdempotencyKey: key,
		Status:         StatusInProgress,
		RequestHash:    requestHash,
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiresAt:      now.Add(s.ttlWindow).Unix(),
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return false, fmt.Errorf("marshal record: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(idempotency_key)"),
	}

	_, err = s.client.PutItem(ctx, input)
	if err != nil {
		if isConditionalFailure(err) {
			return false, nil
		}
		return false, fmt.Errorf("put item: %w", err)
	}
	return true, nil
}

// Get retrieves an idempotency record by key. If not found, returns (nil, nil).
func (s *Store) Get(ctx context.Context, key string) (*Record, error) {
	input := &dyn.GetItemInput{
		TableName:      &s.tableName,
		Key:            s.key(key),
		ConsistentRead: awsBool(true),
	}
	out, err := s.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &rec, nil
}

// MarkDone records the placed order and the response to replay for duplicates.
func (s *Store) MarkDone(ctx context.Context, key, orderID, responseBody string, responseStatus int) error {
	err := s.update(ctx, key, "", "SET #s = :st, order_id = :oid, response_body = :rb, response_status = :rs, updated_at = :ua",
		map[string]types.AttributeValue{
			":st":  &types.AttributeValueMemberS{Value: StatusDone},
			":oid": &types.AttributeValueMemberS{Value: orderID},
			":rb":  &types.AttributeValueMemberS{Value: responseBody},
			":rs":  &types.AttributeValueMemberN{Value: strconv.Itoa(responseStatus)},
		})
	if err != nil {
		return fmt.Errorf("update item (mark done): %w", err)
	}
	return nil
}

// MarkFailed marks the record FAILED so a retry with the same key may run again.
func (s *Store) MarkFailed(ctx context.Context, key, note string) error {
	err := s.update(ctx, key, "", "SET #s = :st, note = :n, updated_at = :ua",
		map[string]types.AttributeValue{
			":st": &types.AttributeValueMemberS{Value: StatusFailed},
			":n":  &types.AttributeValueMemberS{Value: note},
		})
	if err != nil {
		return fmt.Errorf("update item (mark failed): %w", err)
	}
	return nil
}

// Reclaim moves a FAILED record back to IN_PROGRESS. Returns ErrConditionFailed if
// another request reclaimed it first.
func (s *Store) Reclaim(ctx context.Context, key string) error {
	err := s.update(ctx, key, StatusFailed, "SET #s = :st, updated_at = :ua",
		map[string]types.AttributeValue{
			":st": &types.AttributeValueMemberS{Value: StatusInProgress},
		})
	if isConditionalFailure(err) {
		return ErrConditionFailed
	}
	if err != nil {
		return fmt.Errorf("update item (reclaim): %w", err)
	}
	return nil
}

// TakeOver refreshes an IN_PROGRESS record whose last update is older than the stale
// window. Returns ErrConditionFailed if it finished or another request took it first.
func (s *Store) TakeOver(ctx context.Context, key string) error {
	values := map[string]types.AttributeValue{
		":expected": &types.AttributeValueMemberS{Value: StatusInProgress},
		":stale":    &types.AttributeValueMemberS{Value: timestamp(s.nowFunc().Add(-s.staleAfter))},
	}
	err := s.updateIf(ctx, key, "#s = :expected AND updated_at < :stale", "SET updated_at = :ua", values)
	if isConditionalFailure(err) {
		return ErrConditionFailed
	}
	if err != nil {
		return fmt.Errorf("update item (take over): %w", err)
	}
	return nil
}

// update applies expr to key, conditional on the current status when expected is set.
func (s *Store) update(ctx context.Context, key, expected, expr string, values map[string]types.AttributeValue) error {
	cond := ""
	if expected != "" {
		cond = "#s = :expected"
		values[":expected"] = &types.AttributeValueMemberS{Value: expected}
	}
	return s.updateIf(ctx, key, cond, expr, values)
}

func (s *Store) updateIf(ctx context.Context, key, cond, expr string, values map[string]types.AttributeValue) error {
	values[":ua"] = &types.AttributeValueMemberS{Value: timestamp(s.nowFunc())}
	input := &dyn.UpdateItemInput{
		TableName:        &s.tableName,
		Key:              s.key(key),
		UpdateExpression: awsString(expr),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueUpdatedNew,
	}
	if cond != "" {
		input.ConditionExpression = awsString(cond)
	}
	_, err := s.client.UpdateItem(ctx, input)
	return err
}

func (s *Store) key(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"idempotency_key": &types.AttributeValueMemberS{Value: key},
	}
}

func isConditionalFailure(err error) bool {
	var sc smithy.APIError
	return errors.As(err, &sc) && sc.ErrorCode() == "ConditionalCheckFailedException"
}

// timestamp formats t the way attributevalue marshals the record's UTC times, so
// updated_at values compare lexically.
func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func awsString(s string) *string { return &s }
func awsBool(b bool) *bool       { return &b }
