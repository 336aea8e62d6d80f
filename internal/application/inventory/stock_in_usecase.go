// Package inventory contiene la recepción de mercancía (stock-in): el único camino,
// además de la venta, que modifica las existencias de un medicamento.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-api/internal/application/audit"
	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/report"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
	"github.com/jhoicas/farmacia-api/pkg/clock"
	"github.com/jhoicas/farmacia-api/pkg/logger"
)

// StockInUseCase registra recepciones de proveedores.
type StockInUseCase struct {
	txRunner     TxRunner
	stockInRepo  repository.StockInRepository
	supplierRepo repository.SupplierRepository
	audit        audit.Recorder
	clock        clock.Clock
	log          *logger.Logger
}

// NewStockInUseCase construye el caso de uso.
func NewStockInUseCase(
	txRunner TxRunner,
	stockInRepo repository.StockInRepository,
	supplierRepo repository.SupplierRepository,
	recorder audit.Recorder,
	clk clock.Clock,
	log *logger.Logger,
) *StockInUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &StockInUseCase{
		txRunner:     txRunner,
		stockInRepo:  stockInRepo,
		supplierRepo: supplierRepo,
		audit:        recorder,
		clock:        clk,
		log:          log.Component("stock_in"),
	}
}

// CreateStockIn resuelve el medicamento (por id, por lote o creándolo), valida costo <= precio
// y suma la cantidad con la fila bloqueada, todo en una transacción junto con el registro de la recepción.
func (uc *StockInUseCase) CreateStockIn(ctx context.Context, req dto.StockInRequest) (*dto.StockInDTO, error) {
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity debe ser al menos 1", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.SupplierID) == "" {
		return nil, fmt.Errorf("%w: supplier_id es obligatorio", domain.ErrInvalidInput)
	}
	supplier, err := uc.supplierRepo.GetActiveByID(ctx, req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("stock_in: obtener proveedor: %w", err)
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, req.SupplierID)
	}

	now := uc.clock.Now()
	var (
		stockIn *entity.StockIn
		med     *entity.Medicine
		created bool
	)
	err = uc.txRunner.RunStockIn(ctx, func(medicineRepo repository.MedicineRepository, stockInRepo repository.StockInRepository) error {
		var err error
		med, created, err = uc.resolveMedicine(ctx, medicineRepo, req, now)
		if err != nil {
			return err
		}
		if err := validateCostVsPrice(req.CostPrice, req.Price, med); err != nil {
			return err
		}

		med.Quantity += req.Quantity
		if err := medicineRepo.UpdateQuantity(ctx, med.ID, med.Quantity); err != nil {
			return fmt.Errorf("stock_in: sumar existencias: %w", err)
		}

		unitCost := med.CostPrice
		if req.CostPrice != nil {
			unitCost = *req.CostPrice
		}
		stockIn = &entity.StockIn{
			ID:            uuid.New().String(),
			MedicineID:    med.ID,
			SupplierID:    supplier.ID,
			Quantity:      req.Quantity,
			UnitCost:      unitCost,
			InvoiceNumber: req.InvoiceNumber,
			Note:          req.Note,
			ReceivedAt:    now,
			CreatedBy:     audit.ActorFrom(ctx),
		}
		if err := stockInRepo.Create(ctx, stockIn); err != nil {
			return fmt.Errorf("stock_in: registrar recepción: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, audit.ActionStockIn, audit.EntityStockIn, stockIn.ID,
		fmt.Sprintf("Recepción de %d unidades de %s (lote %s) del proveedor %s, existencias %d",
			stockIn.Quantity, med.Name, med.BatchNumber, supplier.Name, med.Quantity))
	uc.log.Info().
		Str("stock_in_id", stockIn.ID).
		Str("medicine_id", med.ID).
		Int("quantity", stockIn.Quantity).
		Bool("medicine_created", created).
		Msg("recepción registrada")

	out := ToStockInDTO(stockIn)
	out.ResultingStock = med.Quantity
	out.MedicineCreated = created
	return out, nil
}

// List recepciones más recientes primero.
func (uc *StockInUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.StockInDTO, error) {
	page.DefaultPage()
	list, err := uc.stockInRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("stock_in: listar: %w", err)
	}
	out := make([]dto.StockInDTO, 0, len(list))
	for _, s := range list {
		out = append(out, *ToStockInDTO(s))
	}
	return out, nil
}

func (uc *StockInUseCase) resolveMedicine(
	ctx context.Context,
	medicineRepo repository.MedicineRepository,
	req dto.StockInRequest,
	now time.Time,
) (*entity.Medicine, bool, error) {
	if req.MedicineID != "" {
		med, err := medicineRepo.GetActiveByIDForUpdate(ctx, req.MedicineID)
		if err != nil {
			return nil, false, fmt.Errorf("stock_in: obtener medicamento: %w", err)
		}
		if med == nil {
			return nil, false, fmt.Errorf("%w: medicamento %s", domain.ErrNotFound, req.MedicineID)
		}
		return med, false, nil
	}

	batch := strings.TrimSpace(req.BatchNumber)
	if batch != "" {
		med, err := medicineRepo.GetByBatchNumberForUpdate(ctx, batch)
		if err != nil {
			return nil, false, fmt.Errorf("stock_in: buscar lote: %w", err)
		}
		if med != nil {
			if err := applyUpdates(med, req, now.Location()); err != nil {
				return nil, false, err
			}
			med.Active = true
			med.UpdatedAt = now
			if err := medicineRepo.Update(ctx, med); err != nil {
				return nil, false, fmt.Errorf("stock_in: actualizar medicamento: %w", err)
			}
			return med, false, nil
		}
	}

	med, err := newMedicine(req, now)
	if err != nil {
		return nil, false, err
	}
	if err := medicineRepo.Create(ctx, med); err != nil {
		return nil, false, fmt.Errorf("stock_in: crear medicamento: %w", err)
	}
	return med, true, nil
}

func newMedicine(req dto.StockInRequest, now time.Time) (*entity.Medicine, error) {
	name := strings.TrimSpace(req.Name)
	batch := strings.TrimSpace(req.BatchNumber)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name es obligatorio para un medicamento nuevo", domain.ErrInvalidInput)
	case batch == "":
		return nil, fmt.Errorf("%w: batch_number es obligatorio para un medicamento nuevo", domain.ErrInvalidInput)
	case strings.TrimSpace(req.ExpiryDate) == "":
		return nil, fmt.Errorf("%w: expiry_date es obligatorio para un medicamento nuevo", domain.ErrInvalidInput)
	case req.Price == nil || req.CostPrice == nil:
		return nil, fmt.Errorf("%w: price y cost_price son obligatorios para un medicamento nuevo", domain.ErrInvalidInput)
	}
	expiry, err := report.ParseDate(req.ExpiryDate, now.Location())
	if err != nil {
		return nil, err
	}
	if expiry.Before(entity.DateOf(now)) {
		return nil, fmt.Errorf("%w: expiry_date no puede estar en el pasado", domain.ErrInvalidInput)
	}
	if req.CostPrice.GreaterThan(*req.Price) {
		return nil, errCostAbovePrice
	}
	med := &entity.Medicine{
		ID:           uuid.New().String(),
		Name:         name,
		BatchNumber:  batch,
		Price:        *req.Price,
		CostPrice:    *req.CostPrice,
		Quantity:     0,
		ReorderLevel: req.ReorderLevel,
		ExpiryDate:   expiry,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Category != nil {
		med.Category = *req.Category
	}
	if req.Manufacturer != nil {
		med.Manufacturer = *req.Manufacturer
	}
	return med, nil
}

// applyUpdates aplica al lote existente los campos presentes en la solicitud.
func applyUpdates(med *entity.Medicine, req dto.StockInRequest, loc *time.Location) error {
	nextPrice, nextCost := med.Price, med.CostPrice
	if req.Price != nil {
		nextPrice = *req.Price
	}
	if req.CostPrice != nil {
		nextCost = *req.CostPrice
	}
	if nextCost.GreaterThan(nextPrice) {
		return errCostAbovePrice
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		med.Name = name
	}
	if req.Category != nil {
		med.Category = *req.Category
	}
	if req.Manufacturer != nil {
		med.Manufacturer = *req.Manufacturer
	}
	if strings.TrimSpace(req.ExpiryDate) != "" {
		expiry, err := report.ParseDate(req.ExpiryDate, loc)
		if err != nil {
			return err
		}
		med.ExpiryDate = expiry
	}
	if req.ReorderLevel != nil {
		med.ReorderLevel = req.ReorderLevel
	}
	med.Price, med.CostPrice = nextPrice, nextCost
	return nil
}

var errCostAbovePrice = fmt.Errorf("%w: cost_price debe ser menor o igual a price", domain.ErrInvalidInput)

func validateCostVsPrice(costPrice, price *decimal.Decimal, med *entity.Medicine) error {
	if costPrice == nil {
		return nil
	}
	compare := med.Price
	if price != nil {
		compare = *price
	}
	if costPrice.GreaterThan(compare) {
		return errCostAbovePrice
	}
	return nil
}

// ToStockInDTO convierte la entidad a su respuesta.
func ToStockInDTO(s *entity.StockIn) *dto.StockInDTO {
	return &dto.StockInDTO{
		ID:            s.ID,
		MedicineID:    s.MedicineID,
		SupplierID:    s.SupplierID,
		Quantity:      s.Quantity,
		UnitCost:      s.UnitCost,
		InvoiceNumber: s.InvoiceNumber,
		Note:          s.Note,
		ReceivedAt:    s.ReceivedAt,
	}
}
