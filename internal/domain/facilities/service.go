package facilities

import (
	"context"
	"strings"
	"time"

	"vet-hospital/internal/platform/apperr"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = apperr.ErrInvalidInput
	ErrNotFound      = apperr.ErrNotFound
	ErrBuildingInUse = apperr.Conflict("building still has rooms")
	ErrRoomInUse     = apperr.Conflict("room still has cages")
	ErrCageInUse     = apperr.Conflict("cage has current occupants")
)

type Service struct {
	repo      Repository
	occupancy OccupancyCounter
	now       func() time.Time
}

func NewService(repo Repository, occupancy OccupancyCounter) *Service {
	return &Service{repo: repo, occupancy: occupancy, now: time.Now}
}

// -------------------------
// Buildings
// -------------------------

type BuildingInput struct {
	Name        *string
	Code        *string
	Description *string
}

func (s *Service) CreateBuilding(ctx context.Context, in BuildingInput) (Building, error) {
	name := trimPtr(in.Name)
	if name == "" {
		return Building{}, apperr.Invalid("name is required")
	}
	now := s.now().UTC()
	b := Building{
		ID:          uuid.NewString(),
		Name:        name,
		Code:        trimPtr(in.Code),
		Description: trimPtr(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateBuilding(ctx, b); err != nil {
		return Building{}, err
	}
	return b, nil
}

func (s *Service) UpdateBuilding(ctx context.Context, id string, in BuildingInput) (Building, error) {
	b, err := s.GetBuilding(ctx, id)
	if err != nil {
		return Building{}, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Building{}, apperr.Invalid("name cannot be empty")
		}
		b.Name = trimPtr(in.Name)
	}
	if in.Code != nil {
		b.Code = trimPtr(in.Code)
	}
	if in.Description != nil {
		b.Description = trimPtr(in.Description)
	}
	b.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateBuilding(ctx, b); err != nil {
		return Building{}, err
	}
	return b, nil
}

func (s *Service) GetBuilding(ctx context.Context, id string) (Building, error) {
	if strings.TrimSpace(id) == "" {
		return Building{}, ErrInvalidInput
	}
	return s.repo.GetBuilding(ctx, strings.TrimSpace(id))
}

func (s *Service) ListBuildings(ctx context.Context) ([]Building, error) {
	return s.repo.ListBuildings(ctx)
}

func (s *Service) DeleteBuilding(ctx context.Context, id string) error {
	b, err := s.GetBuilding(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.repo.CountRooms(ctx, b.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrBuildingInUse
	}
	return s.repo.DeleteBuilding(ctx, b.ID)
}

// -------------------------
// Rooms
// -------------------------

type RoomInput struct {
	BuildingID  *string
	Name        *string
	Floor       *string
	Description *string
}

func (s *Service) CreateRoom(ctx context.Context, in RoomInput) (Room, error) {
	name := trimPtr(in.Name)
	if name == "" {
		return Room{}, apperr.Invalid("name is required")
	}
	b, err := s.GetBuilding(ctx, trimPtr(in.BuildingID))
	if err != nil {
		return Room{}, err
	}
	now := s.now().UTC()
	r := Room{
		ID:          uuid.NewString(),
		BuildingID:  b.ID,
		Name:        name,
		Floor:       trimPtr(in.Floor),
		Description: trimPtr(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateRoom(ctx, r); err != nil {
		return Room{}, err
	}
	return r, nil
}

func (s *Service) UpdateRoom(ctx context.Context, id string, in RoomInput) (Room, error) {
	r, err := s.GetRoom(ctx, id)
	if err != nil {
		return Room{}, err
	}
	if in.BuildingID != nil {
		b, err := s.GetBuilding(ctx, *in.BuildingID)
		if err != nil {
			return Room{}, err
		}
		r.BuildingID = b.ID
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Room{}, apperr.Invalid("name cannot be empty")
		}
		r.Name = trimPtr(in.Name)
	}
	if in.Floor != nil {
		r.Floor = trimPtr(in.Floor)
	}
	if in.Description != nil {
		r.Description = trimPtr(in.Description)
	}
	r.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateRoom(ctx, r); err != nil {
		return Room{}, err
	}
	return r, nil
}

func (s *Service) GetRoom(ctx context.Context, id string) (Room, error) {
	if strings.TrimSpace(id) == "" {
		return Room{}, ErrInvalidInput
	}
	return s.repo.GetRoom(ctx, strings.TrimSpace(id))
}

func (s *Service) ListRooms(ctx context.Context, buildingID string) ([]Room, error) {
	return s.repo.ListRooms(ctx, strings.TrimSpace(buildingID))
}

func (s *Service) DeleteRoom(ctx context.Context, id string) error {
	r, err := s.GetRoom(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.repo.CountCages(ctx, r.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrRoomInUse
	}
	return s.repo.DeleteRoom(ctx, r.ID)
}

// -------------------------
// Cages
// -------------------------

type CageInput struct {
	RoomID      *string
	CageNumber  *string
	MaxPetCount *int
	Status      *string
	Notes       *string
}

func (s *Service) CreateCage(ctx context.Context, in CageInput) (Cage, error) {
	number := trimPtr(in.CageNumber)
	if number == "" {
		return Cage{}, apperr.Invalid("cage_number is required")
	}
	maxPets := 1
	if in.MaxPetCount != nil {
		maxPets = *in.MaxPetCount
	}
	if maxPets < 1 {
		return Cage{}, apperr.Invalid("max_pet_count must be >= 1")
	}
	status := CageAvailable
	if in.Status != nil && strings.TrimSpace(*in.Status) != "" {
		status = CageStatus(strings.ToLower(trimPtr(in.Status)))
		if !status.Valid() || status == CageOccupied {
			return Cage{}, apperr.Invalid("status must be available, maintenance or reserved")
		}
	}
	room, err := s.GetRoom(ctx, trimPtr(in.RoomID))
	if err != nil {
		return Cage{}, err
	}

	now := s.now().UTC()
	c := Cage{
		ID:          uuid.NewString(),
		RoomID:      room.ID,
		CageNumber:  number,
		MaxPetCount: maxPets,
		Status:      status,
		Notes:       trimPtr(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateCage(ctx, c); err != nil {
		return Cage{}, err
	}
	return c, nil
}

// UpdateCage no permite bajar la capacidad por debajo de la ocupación actual
// ni pasar a maintenance/reserved con pacientes adentro.
func (s *Service) UpdateCage(ctx context.Context, id string, in CageInput) (Cage, error) {
	c, err := s.GetCage(ctx, id)
	if err != nil {
		return Cage{}, err
	}
	current, err := s.currentCount(ctx, c.ID)
	if err != nil {
		return Cage{}, err
	}

	if in.RoomID != nil {
		room, err := s.GetRoom(ctx, *in.RoomID)
		if err != nil {
			return Cage{}, err
		}
		c.RoomID = room.ID
	}
	if in.CageNumber != nil {
		if strings.TrimSpace(*in.CageNumber) == "" {
			return Cage{}, apperr.Invalid("cage_number cannot be empty")
		}
		c.CageNumber = trimPtr(in.CageNumber)
	}
	if in.MaxPetCount != nil {
		if *in.MaxPetCount < 1 {
			return Cage{}, apperr.Invalid("max_pet_count must be >= 1")
		}
		if *in.MaxPetCount < current {
			return Cage{}, apperr.Conflict("max_pet_count is below current occupancy")
		}
		c.MaxPetCount = *in.MaxPetCount
	}
	if in.Status != nil {
		status := CageStatus(strings.ToLower(trimPtr(in.Status)))
		if !status.Valid() {
			return Cage{}, apperr.Invalid("unknown cage status")
		}
		if !status.Assignable() && current > 0 {
			return Cage{}, ErrCageInUse
		}
		c.Status = status
	}
	// available/occupied siguen a la ocupación real.
	if c.Status.Assignable() {
		c.Status = StatusFor(current)
	}
	if in.Notes != nil {
		c.Notes = trimPtr(in.Notes)
	}
	c.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateCage(ctx, c); err != nil {
		return Cage{}, err
	}
	return c, nil
}

func (s *Service) GetCage(ctx context.Context, id string) (Cage, error) {
	if strings.TrimSpace(id) == "" {
		return Cage{}, ErrInvalidInput
	}
	return s.repo.GetCage(ctx, strings.TrimSpace(id))
}

func (s *Service) DeleteCage(ctx context.Context, id string) error {
	c, err := s.GetCage(ctx, id)
	if err != nil {
		return err
	}
	current, err := s.currentCount(ctx, c.ID)
	if err != nil {
		return err
	}
	if current > 0 {
		return ErrCageInUse
	}
	return s.repo.DeleteCage(ctx, c.ID)
}

// ListCages devuelve jaulas con su ocupación (un solo conteo agrupado).
func (s *Service) ListCages(ctx context.Context, f CageFilter) ([]Occupancy, error) {
	cages, err := s.repo.ListCages(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.withOccupancy(ctx, cages)
}

func (s *Service) Occupancy(ctx context.Context, cageID string) (Occupancy, error) {
	c, err := s.GetCage(ctx, cageID)
	if err != nil {
		return Occupancy{}, err
	}
	current, err := s.currentCount(ctx, c.ID)
	if err != nil {
		return Occupancy{}, err
	}
	return Occupancy{Cage: c, Current: current}, nil
}

// Available: jaulas activas (available|occupied) con lugar libre.
func (s *Service) Available(ctx context.Context, f CageFilter) ([]Occupancy, error) {
	f.Status = ""
	all, err := s.ListCages(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]Occupancy, 0, len(all))
	for _, o := range all {
		if o.HasRoom() {
			out = append(out, o)
		}
	}
	return out, nil
}

// Totals para el tablero: total de jaulas y cuántas tienen lugar.
func (s *Service) Totals(ctx context.Context) (total, available int, err error) {
	all, err := s.ListCages(ctx, CageFilter{})
	if err != nil {
		return 0, 0, err
	}
	for _, o := range all {
		if o.HasRoom() {
			available++
		}
	}
	return len(all), available, nil
}

func (s *Service) withOccupancy(ctx context.Context, cages []Cage) ([]Occupancy, error) {
	ids := make([]string, 0, len(cages))
	for _, c := range cages {
		ids = append(ids, c.ID)
	}
	counts := map[string]int{}
	if len(ids) > 0 {
		var err error
		counts, err = s.occupancy.CountActiveByCage(ctx, ids)
		if err != nil {
			return nil, err
		}
	}
	out := make([]Occupancy, 0, len(cages))
	for _, c := range cages {
		out = append(out, Occupancy{Cage: c, Current: counts[c.ID]})
	}
	return out, nil
}

func (s *Service) currentCount(ctx context.Context, cageID string) (int, error) {
	counts, err := s.occupancy.CountActiveByCage(ctx, []string{cageID})
	if err != nil {
		return 0, err
	}
	return counts[cageID], nil
}

// StatusFor da el estado automático según ocupantes.
func StatusFor(current int) CageStatus {
	if current > 0 {
		return CageOccupied
	}
	return CageAvailable
}

func trimPtr(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
