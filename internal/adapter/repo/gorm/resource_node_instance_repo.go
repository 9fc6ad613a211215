package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"worldharvest/internal/adapter/repo/gorm/model"
	"worldharvest/internal/app/ports"
	"worldharvest/internal/domain/resourcenode"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResourceNodeInstanceRepo struct {
	db *gorm.DB
}

func NewResourceNodeInstanceRepo(db *gorm.DB) ResourceNodeInstanceRepo {
	return ResourceNodeInstanceRepo{db: db}
}

func (r ResourceNodeInstanceRepo) Add(ctx context.Context, inst resourcenode.Instance) error {
	row := toRow(inst)
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now
	err := conn(ctx, r.db).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrConflict
	}
	return err
}

func (r ResourceNodeInstanceRepo) GetByID(ctx context.Context, id string) (resourcenode.Instance, error) {
	var row model.ResourceNodeInstance
	err := conn(ctx, r.db).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resourcenode.Instance{}, ports.ErrNotFound
		}
		return resourcenode.Instance{}, err
	}
	return toDomain(row), nil
}

func (r ResourceNodeInstanceRepo) GetInstancesByArea(ctx context.Context, area string) ([]resourcenode.Instance, error) {
	var rows []model.ResourceNodeInstance
	if err := conn(ctx, r.db).
		Where("area = ?", area).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]resourcenode.Instance, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out, nil
}

func (r ResourceNodeInstanceRepo) Remove(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Where("id = ?", id).Delete(&model.ResourceNodeInstance{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r ResourceNodeInstanceRepo) RemoveAllInArea(ctx context.Context, area string) (int, error) {
	res := conn(ctx, r.db).Where("area = ?", area).Delete(&model.ResourceNodeInstance{})
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

// Apply locks the row with SELECT ... FOR UPDATE for the duration of the
// mutation. It joins a transaction already carried by ctx.
func (r ResourceNodeInstanceRepo) Apply(ctx context.Context, id string, fn ports.InstanceMutation) (resourcenode.Instance, error) {
	var after resourcenode.Instance
	err := inTx(ctx, r.db, func(_ context.Context, tx *gorm.DB) error {
		var row model.ResourceNodeInstance
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ErrNotFound
		}
		if err != nil {
			return err
		}

		inst := toDomain(row)
		remove, err := fn(&inst)
		if err != nil {
			return err
		}
		if remove {
			if err := tx.Where("id = ?", id).Delete(&model.ResourceNodeInstance{}).Error; err != nil {
				return fmt.Errorf("delete node %s: %w", id, err)
			}
		} else {
			if err := tx.Model(&model.ResourceNodeInstance{}).Where("id = ?", id).Updates(map[string]any{
				"quality":                 inst.Quality,
				"remaining_uses":          inst.RemainingUses,
				"harvest_progress_rounds": inst.HarvestProgressRounds,
				"updated_at":              time.Now().UTC(),
			}).Error; err != nil {
				return fmt.Errorf("update node %s: %w", id, err)
			}
		}
		// Identity fields stay as stored.
		inst.ID, inst.Area, inst.ResourceTag = row.ID, row.Area, row.ResourceTag
		after = inst
		return nil
	})
	if err != nil {
		return resourcenode.Instance{}, err
	}
	return after, nil
}

func toRow(inst resourcenode.Instance) model.ResourceNodeInstance {
	return model.ResourceNodeInstance{
		ID:                    inst.ID,
		ResourceTag:           inst.ResourceTag,
		Area:                  inst.Area,
		PosX:                  inst.Position.X,
		PosY:                  inst.Position.Y,
		PosZ:                  inst.Position.Z,
		Heading:               inst.Position.Heading,
		Quality:               int32(inst.Quality),
		RemainingUses:         int32(inst.RemainingUses),
		HarvestProgressRounds: int32(inst.HarvestProgressRounds),
	}
}

func toDomain(row model.ResourceNodeInstance) resourcenode.Instance {
	return resourcenode.Instance{
		ID:          row.ID,
		ResourceTag: row.ResourceTag,
		Area:        row.Area,
		Position: resourcenode.Position{
			X:       row.PosX,
			Y:       row.PosY,
			Z:       row.PosZ,
			Heading: row.Heading,
		},
		Quality:               int(row.Quality),
		RemainingUses:         int(row.RemainingUses),
		HarvestProgressRounds: int(row.HarvestProgressRounds),
	}
}
