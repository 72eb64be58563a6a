package usecase

import (
	"context"
	"errors"
	"main/model"
	"main/repository"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ClientsService struct {
	repo      *repository.ClientsRepo
	opTimeout time.Duration
}

func NewClientsService(repo *repository.ClientsRepo, opTimeout time.Duration) *ClientsService {
	if opTimeout <= 0 {
		opTimeout = 10 * time.Second
	}
	return &ClientsService{repo: repo, opTimeout: opTimeout}
}

func (svc *ClientsService) CreateClient(ctx context.Context, client *model.Client) error {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	if client.Name == "" {
		return errors.New("client name is required")
	}

	now := time.Now()
	if client.ClientID == "" {
		client.ClientID = uuid.New().String()
	}
	client.Active = true
	client.CreatedAt = now
	client.UpdatedAt = now

	return svc.repo.CreateClient(ctx, client)
}

func (svc *ClientsService) GetClient(ctx context.Context, clientID string) (*model.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	client, err := svc.repo.GetClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	return client, nil
}

func (svc *ClientsService) GetAllClients(ctx context.Context) ([]*model.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	return svc.repo.GetAllClients(ctx)
}

// Search clients by name or email, case-insensitive
func (svc *ClientsService) SearchClients(ctx context.Context, searchText string) ([]*model.Client, error) {
	clients, err := svc.GetAllClients(ctx)
	if err != nil {
		return nil, err
	}

	if searchText == "" {
		return []*model.Client{}, nil
	}

	searchText = strings.ToLower(searchText)
	var results []*model.Client
	for _, client := range clients {
		if strings.Contains(strings.ToLower(client.Name), searchText) ||
			strings.Contains(strings.ToLower(client.ContactEmail), searchText) {
			results = append(results, client)
		}
	}
	return results, nil
}

func (svc *ClientsService) UpdateClient(ctx context.Context, clientID string, updates *model.Client) (*model.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	existing, err := svc.repo.GetClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrClientNotFound
	}

	if updates.Name != "" {
		existing.Name = updates.Name
	}
	if updates.RegistrationNumber != "" {
		existing.RegistrationNumber = updates.RegistrationNumber
	}
	if updates.ContactEmail != "" {
		existing.ContactEmail = updates.ContactEmail
	}
	if updates.Phone != "" {
		existing.Phone = updates.Phone
	}
	existing.Active = updates.Active
	existing.UpdatedAt = time.Now()

	if err := svc.repo.UpdateClient(ctx, clientID, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (svc *ClientsService) DeleteClient(ctx context.Context, clientID string) error {
	ctx, cancel := context.WithTimeout(ctx, svc.opTimeout)
	defer cancel()

	existing, err := svc.repo.GetClientByID(ctx, clientID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrClientNotFound
	}
	return svc.repo.DeleteClient(ctx, clientID)
}
