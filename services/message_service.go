package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"bakery-service/models"
	awspkg "bakery-service/pkg/aws"
	"bakery-service/repository"
	"bakery-service/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MessageService interface {
	Submit(ctx context.Context, req *models.ContactRequest) (*models.ContactMessage, *ServiceError)
	List(ctx context.Context, q repository.MessageQuery) ([]models.ContactMessage, int64, *ServiceError)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.ContactMessage, *ServiceError)
}

type messageServiceImpl struct {
	repo        repository.ContactMessageRepository
	policy      workflow.Policy
	snsClient   awspkg.SNSPublisher
	snsTopicArn string
	metrics     awspkg.MetricsRecorder
	logger      *zap.Logger
}

func NewMessageService(
	repo repository.ContactMessageRepository,
	policy workflow.Policy,
	snsClient awspkg.SNSPublisher,
	snsTopicArn string,
	metrics awspkg.MetricsRecorder,
	logger *zap.Logger,
) MessageService {
	if policy == nil {
		policy = workflow.Permissive{}
	}
	return &messageServiceImpl{
		repo:        repo,
		policy:      policy,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		metrics:     metrics,
		logger:      logger,
	}
}

// Submit stores a contact form entry as pending and notifies staff.
func (s *messageServiceImpl) Submit(ctx context.Context, req *models.ContactRequest) (*models.ContactMessage, *ServiceError) {
	in := *req
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	if svcErr := validateStruct(&in); svcErr != nil {
		return nil, svcErr
	}

	msg := &models.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   optional(in.Phone),
		Subject: in.Subject,
		Message: in.Message,
		Status:  models.MessageStatusPending,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		s.logger.Error("Failed to save contact message", zap.Error(err))
		return nil, transientError("Failed to send message. Please try again.", err)
	}

	s.logger.Info("Contact message received", zap.String("message_id", msg.ID.String()))
	recordCount(s.metrics, awspkg.MetricContactMessages, nil)
	publishSNS(ctx, s.logger, s.snsClient, s.snsTopicArn, models.ContactMessageReceivedEvent{
		Event:     models.EventContactMessageReceived,
		MessageID: msg.ID.String(),
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		Timestamp: time.Now().UTC(),
	})
	return msg, nil
}

func (s *messageServiceImpl) List(ctx context.Context, q repository.MessageQuery) ([]models.ContactMessage, int64, *ServiceError) {
	if q.Status != "" && !workflow.Messages.IsValid(q.Status) {
		return nil, 0, validationError("Invalid status filter: "+string(q.Status), nil)
	}
	msgs, total, err := s.repo.FindAll(ctx, q)
	if err != nil {
		s.logger.Error("Failed to list messages", zap.Error(err))
		return nil, 0, transientError("Failed to load messages", err)
	}
	return msgs, total, nil
}

func (s *messageServiceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.ContactMessage, *ServiceError) {
	target, err := workflow.Messages.Parse(status)
	if err != nil {
		return nil, validationError("Invalid message status: "+status, err)
	}

	msg, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError("Message not found")
	}
	if err != nil {
		s.logger.Error("Failed to load message", zap.Error(err), zap.String("message_id", id.String()))
		return nil, transientError("Failed to load message", err)
	}
	from := msg.Status

	if err := workflow.Messages.Transition(s.policy, from, target); err != nil {
		svcErr := conflictError(err.Error())
		svcErr.Err = err
		svcErr.PreviousStatus = string(from)
		return nil, svcErr
	}
	if from == target {
		return msg, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("Message not found")
		}
		s.logger.Error("Failed to update message status", zap.Error(err), zap.String("message_id", id.String()))
		svcErr := transientError("Failed to update message status", err)
		svcErr.PreviousStatus = string(from)
		return nil, svcErr
	}

	msg.Status = target
	msg.UpdatedAt = time.Now()
	return msg, nil
}
