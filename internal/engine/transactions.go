package engine

import (
	"context"
	"strings"

	"github.com/roach88/atomstore/internal/atom"
	"github.com/roach88/atomstore/internal/queryir"
	"github.com/roach88/atomstore/internal/querymatch"
	"github.com/roach88/atomstore/internal/schema"
	"github.com/roach88/atomstore/internal/store"
)

// TransactionInput is the input of LogTransaction. Every field is required
// and Price must be numeric.
type TransactionInput struct {
	VehicleNumber string `json:"vehicle_number" yaml:"vehicle_number"`
	Time          string `json:"time" yaml:"time"`
	Date          string `json:"date" yaml:"date"`
	Name          string `json:"name" yaml:"name"`
	Price         string `json:"price" yaml:"price"`
}

// Record builds the transaction record
//
//	(<veh_no> "<time>" "<date>" ("<name>") <price>)
func (in TransactionInput) Record() atom.List {
	return atom.List{
		atom.Auto(strings.TrimSpace(in.VehicleNumber)),
		atom.String(in.Time),
		atom.String(in.Date),
		atom.List{atom.String(in.Name)},
		atom.Number(strings.TrimSpace(in.Price)),
	}
}

func (in TransactionInput) validate() error {
	if err := requireFields(
		field{"vehicle_number", in.VehicleNumber},
		field{"time", in.Time},
		field{"date", in.Date},
		field{"name", in.Name},
		field{"price", in.Price},
	); err != nil {
		return err
	}
	if !atom.IsNumeric(strings.TrimSpace(in.Price)) {
		return &ValidationError{
			Fields:  []string{"price"},
			Message: "price must be numeric, got " + in.Price,
		}
	}
	return nil
}

// LogTransaction appends a transaction record.
func (e *Engine) LogTransaction(ctx context.Context, in TransactionInput) (WriteResult, error) {
	c := e.begin("log_transaction", "vehicle_number", in.VehicleNumber)

	if err := in.validate(); err != nil {
		return WriteResult{}, c.end(err)
	}

	rec := in.Record()
	if err := e.stores.Transactions.Append(ctx, rec); err != nil {
		return WriteResult{}, c.end(err)
	}

	res := newWriteResult(rec)
	c.log.Info("transaction logged", "record_id", res.RecordID)
	return res, c.end(nil)
}

// Transactions returns every transaction of vehNo in file order.
func (e *Engine) Transactions(ctx context.Context, vehNo string) ([]schema.Projection, error) {
	vehNo = strings.TrimSpace(vehNo)
	c := e.begin("transactions", "vehicle_number", vehNo)

	if err := requireFields(field{"vehicle_number", vehNo}); err != nil {
		return nil, c.end(err)
	}

	m := querymatch.MustCompile(queryir.Key(vehNo))
	recs, err := e.stores.Transactions.FindAll(ctx, store.Predicate(m))
	if err != nil {
		return nil, c.end(err)
	}

	sc, _ := e.schemas.Get(schema.Transaction)
	out := make([]schema.Projection, 0, len(recs))
	for _, rec := range recs {
		p := schema.Project(rec.Tail(), sc)
		p["vehicle_number"] = schema.Normalize(rec.Head())
		out = append(out, p)
	}

	c.found(len(out) > 0)
	return out, nil
}
