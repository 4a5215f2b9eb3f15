package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cargram/internal/mirror"
	"cargram/internal/model"
	"cargram/internal/queue"
	"cargram/internal/repository"
	"cargram/internal/vindecoder"
)

// VehicleService decodes VINs and owns the single-vehicle-per-user store.
type VehicleService struct {
	repo      repository.VehicleRepository
	decoder   vindecoder.Decoder
	remote    mirror.RemoteMirror
	publisher queue.Publisher

	// strict couples the local save to the remote mirror: the save call
	// only succeeds once the mirror accepted the vehicle. When false the
	// mirror write is queued and failures never surface to the caller.
	strict bool
}

func NewVehicleService(
	repo repository.VehicleRepository,
	decoder vindecoder.Decoder,
	remote mirror.RemoteMirror,
	publisher queue.Publisher,
	strict bool,
) *VehicleService {
	return &VehicleService{
		repo:      repo,
		decoder:   decoder,
		remote:    remote,
		publisher: publisher,
		strict:    strict,
	}
}

// DecodeAndSave resolves the VIN through the decode service and replaces
// the user's stored vehicle with the result.
func (s *VehicleService) DecodeAndSave(ctx context.Context, userID, vin string) (*model.Vehicle, error) {
	vin = normalizeVIN(vin)
	if vin == "" {
		return nil, fmt.Errorf("vin is required")
	}

	vehicle, err := s.decoder.Decode(ctx, vin)
	if err != nil {
		return nil, err
	}

	if err := s.Save(ctx, userID, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// normalizeVIN trims, uppercases, and truncates to the standard 17
// characters. Applied on every entry path, decoded or manual.
func normalizeVIN(vin string) string {
	vin = strings.ToUpper(strings.TrimSpace(vin))
	if len(vin) > model.VINLength {
		vin = vin[:model.VINLength]
	}
	return vin
}

// Save replaces the user's stored vehicle and pushes it to the mirror.
func (s *VehicleService) Save(ctx context.Context, userID string, vehicle *model.Vehicle) error {
	vehicle.VIN = normalizeVIN(vehicle.VIN)
	if err := s.repo.SaveForUser(ctx, vehicle, userID); err != nil {
		return fmt.Errorf("save vehicle: %w", err)
	}

	if s.strict {
		if err := s.remote.SaveVehicle(ctx, vehicle); err != nil {
			return fmt.Errorf("mirror vehicle: %w", err)
		}
		return nil
	}

	event := queue.NewVehicleSavedEvent(userID)
	if _, err := s.publisher.Publish(ctx, queue.StreamMirror, event); err != nil {
		log.Printf("[VehicleService] Failed to publish VehicleSaved event: user=%s err=%v", userID, err)
	}
	return nil
}

// GetForUser returns the user's vehicle, or nil when none is saved.
func (s *VehicleService) GetForUser(ctx context.Context, userID string) (*model.Vehicle, error) {
	return s.repo.GetForUser(ctx, userID)
}
