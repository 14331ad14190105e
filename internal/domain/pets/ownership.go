package pets

import "context"

// OwnerOf expone el owner_id de una mascota.
// Lo usan admissions y billing sin tener que conocer el modelo completo.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerID, nil
}
