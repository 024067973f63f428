package candidatepool

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/database"
	"github.com/Ramsey-B/stem/pkg/tracing"
	"github.com/huandu/go-sqlbuilder"
	"github.com/shopspring/decimal"

	"github.com/Ramsey-B/sage/pkg/models"
)

// Repository loads the matching candidate pool: active customers with
// their active contracts, one bulk read per scan.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new candidate pool repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// poolRow is one flattened customer/contract row from the join. Contract
// columns are null when the customer has no active contracts.
type poolRow struct {
	CustomerID     string          `db:"customer_id"`
	CompanyName    sql.NullString  `db:"company_name"`
	CompanyNameAr  sql.NullString  `db:"company_name_ar"`
	FirstName      sql.NullString  `db:"first_name"`
	FirstNameAr    sql.NullString  `db:"first_name_ar"`
	LastName       sql.NullString  `db:"last_name"`
	LastNameAr     sql.NullString  `db:"last_name_ar"`
	Phone          sql.NullString  `db:"phone"`
	CustomerType   sql.NullString  `db:"customer_type"`
	ContractID     sql.NullString  `db:"contract_id"`
	ContractNumber sql.NullString  `db:"contract_number"`
	MonthlyAmount  decimal.NullDecimal `db:"monthly_amount"`
	CarNumber      sql.NullString  `db:"car_number"`
	ContractStatus sql.NullString  `db:"contract_status"`
}

// ActiveCandidates returns every active customer for the tenant with their
// active contracts attached. A tenant with no active customers yields an
// empty slice.
func (r *Repository) ActiveCandidates(ctx context.Context, tenantID string) ([]models.CandidateRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "candidatepool.Repository.ActiveCandidates")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(
		"cu.id AS customer_id",
		"cu.company_name",
		"cu.company_name_ar",
		"cu.first_name",
		"cu.first_name_ar",
		"cu.last_name",
		"cu.last_name_ar",
		"cu.phone",
		"cu.customer_type",
		"co.id AS contract_id",
		"co.contract_number",
		"co.monthly_amount",
		"co.car_number",
		"co.status AS contract_status",
	)
	sb.From("customers cu")
	sb.JoinWithOption(sqlbuilder.LeftJoin, "contracts co",
		"co.customer_id = cu.id",
		"co.tenant_id = cu.tenant_id",
		"co.status = 'active'",
	)
	sb.Where(
		sb.Equal("cu.tenant_id", tenantID),
		sb.Equal("cu.status", "active"),
	)
	sb.OrderBy("cu.created_at ASC", "cu.id ASC", "co.created_at ASC")

	query, args := sb.Build()
	var rows []poolRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to load candidate pool")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to load candidate pool")
	}

	candidates := assemble(rows)

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id":      tenantID,
		"customer_count": len(candidates),
		"row_count":      len(rows),
	}).Debug("Loaded candidate pool")

	return candidates, nil
}

// assemble groups the flat join rows into one CandidateRecord per customer,
// preserving the query's row order.
func assemble(rows []poolRow) []models.CandidateRecord {
	candidates := make([]models.CandidateRecord, 0, len(rows))
	index := make(map[string]int)

	for _, row := range rows {
		i, ok := index[row.CustomerID]
		if !ok {
			i = len(candidates)
			index[row.CustomerID] = i
			candidates = append(candidates, models.CandidateRecord{
				CustomerID:    row.CustomerID,
				CompanyName:   nullableString(row.CompanyName),
				CompanyNameAr: nullableString(row.CompanyNameAr),
				FirstName:     nullableString(row.FirstName),
				FirstNameAr:   nullableString(row.FirstNameAr),
				LastName:      nullableString(row.LastName),
				LastNameAr:    nullableString(row.LastNameAr),
				Phone:         nullableString(row.Phone),
				CustomerType:  row.CustomerType.String,
			})
		}

		if !row.ContractID.Valid {
			continue
		}
		contract := models.ContractRef{
			ContractID:     row.ContractID.String,
			ContractNumber: row.ContractNumber.String,
			CarNumber:      nullableString(row.CarNumber),
			Status:         row.ContractStatus.String,
		}
		if row.MonthlyAmount.Valid {
			amount := row.MonthlyAmount.Decimal
			contract.MonthlyAmount = &amount
		}
		candidates[i].Contracts = append(candidates[i].Contracts, contract)
	}

	return candidates
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
