package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/enrichment"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/repository"
)

const maxExternalIDLen = 64

type ServerService struct {
	servers  repository.ServerRepository
	enricher enrichment.Fetcher
}

// NewServerService wires the server lifecycle. enricher may be nil, in which
// case every upsert uses caller values and fallbacks only.
func NewServerService(servers repository.ServerRepository, enricher enrichment.Fetcher) *ServerService {
	return &ServerService{servers: servers, enricher: enricher}
}

// List returns active servers, or every server when includeInactive is set,
// ordered by sort order then id.
func (s *ServerService) List(ctx context.Context, includeInactive bool) ([]models.Server, error) {
	servers, err := s.servers.List(ctx, includeInactive)
	if err != nil {
		return nil, storeFailure("list servers", err)
	}
	return servers, nil
}

func (s *ServerService) Get(ctx context.Context, id uint) (*models.Server, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	srv, err := s.servers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeFailure("get server", err, "server_id", id)
	}
	return srv, nil
}

// Upsert creates the server or overwrites the existing row with the same
// external id. It always leaves the row active. Enrichment failures never
// fail the save.
func (s *ServerService) Upsert(ctx context.Context, req *dto.UpsertServerRequest) (*models.Server, error) {
	externalID := strings.TrimSpace(req.ExternalID)
	if externalID == "" {
		return nil, invalid("external_id is required")
	}
	if len(externalID) > maxExternalIDLen {
		return nil, invalid("external_id is too long")
	}

	enr := s.enrich(ctx, externalID)

	in := repository.ServerUpsert{
		ExternalID:  externalID,
		DisplayName: "Server " + externalID,
		GameTitle:   pick(req.GameTitle, enr.GameTitle),
		Region:      pick(req.Region, enr.Region),
		SortOrder:   req.SortOrder,
	}
	if name := pick(req.DisplayName, enr.DisplayName); name != nil {
		in.DisplayName = *name
	}

	srv, err := s.servers.UpsertByExternalID(ctx, in)
	if err != nil {
		return nil, storeFailure("upsert server", err, "external_id", externalID)
	}
	return srv, nil
}

func (s *ServerService) enrich(ctx context.Context, externalID string) *enrichment.Enrichment {
	if s.enricher == nil {
		return &enrichment.Enrichment{}
	}
	enr, err := s.enricher.Fetch(ctx, externalID)
	if err != nil {
		slog.Warn("server enrichment unavailable, using fallbacks", "external_id", externalID, "error", err)
		return &enrichment.Enrichment{}
	}
	return enr
}

// SoftDelete deactivates the server. The row stays retrievable by id.
func (s *ServerService) SoftDelete(ctx context.Context, id uint) error {
	if err := requireID(id); err != nil {
		return err
	}
	n, err := s.servers.UpdateActive(ctx, id, false)
	if err != nil {
		return storeFailure("deactivate server", err, "server_id", id)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// pick returns the first value that is set and not blank, trimmed.
func pick(values ...*string) *string {
	for _, v := range values {
		if v == nil {
			continue
		}
		if t := strings.TrimSpace(*v); t != "" {
			return &t
		}
	}
	return nil
}
