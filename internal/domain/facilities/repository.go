package facilities

import "context"

type Repository interface {
	CreateBuilding(ctx context.Context, b Building) error
	UpdateBuilding(ctx context.Context, b Building) error
	DeleteBuilding(ctx context.Context, id string) error
	GetBuilding(ctx context.Context, id string) (Building, error)
	ListBuildings(ctx context.Context) ([]Building, error)

	CreateRoom(ctx context.Context, r Room) error
	UpdateRoom(ctx context.Context, r Room) error
	DeleteRoom(ctx context.Context, id string) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context, buildingID string) ([]Room, error)
	CountRooms(ctx context.Context, buildingID string) (int, error)

	CreateCage(ctx context.Context, c Cage) error
	UpdateCage(ctx context.Context, c Cage) error
	DeleteCage(ctx context.Context, id string) error
	GetCage(ctx context.Context, id string) (Cage, error)
	// GetCageForUpdate bloquea la fila dentro de la transacción activa.
	GetCageForUpdate(ctx context.Context, id string) (Cage, error)
	SetCageStatus(ctx context.Context, id string, status CageStatus) error
	ListCages(ctx context.Context, f CageFilter) ([]Cage, error)
	CountCages(ctx context.Context, roomID string) (int, error)
}

// OccupancyCounter la implementa el repo de admissions.
type OccupancyCounter interface {
	// CountActiveByCage devuelve ocupantes por jaula en una sola consulta.
	// cageIDs vacío => todas.
	CountActiveByCage(ctx context.Context, cageIDs []string) (map[string]int, error)
}
