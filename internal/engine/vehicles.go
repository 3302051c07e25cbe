package engine

import (
	"context"
	"strings"

	"github.com/roach88/atomstore/internal/atom"
	"github.com/roach88/atomstore/internal/queryir"
	"github.com/roach88/atomstore/internal/querymatch"
	"github.com/roach88/atomstore/internal/schema"
)

// VehicleInput is the input of RegisterVehicle. Every field is required.
type VehicleInput struct {
	VehicleNumber string `json:"vehicle_number" yaml:"vehicle_number"`
	FullName      string `json:"full_name" yaml:"full_name"`
	WalletAddress string `json:"wallet_address" yaml:"wallet_address"`
	VehicleType   string `json:"vehicle_type" yaml:"vehicle_type"`
	RCDetail      string `json:"rc_detail" yaml:"rc_detail"`
}

// Record builds the registration record
//
//	(<veh_no> ("<full_name>") "<wallet>" "<type>" "<rc>")
func (in VehicleInput) Record() atom.List {
	return atom.List{
		atom.Auto(strings.TrimSpace(in.VehicleNumber)),
		atom.List{atom.String(in.FullName)},
		atom.String(in.WalletAddress),
		atom.String(in.VehicleType),
		atom.String(in.RCDetail),
	}
}

func (in VehicleInput) validate() error {
	return requireFields(
		field{"vehicle_number", in.VehicleNumber},
		field{"full_name", in.FullName},
		field{"wallet_address", in.WalletAddress},
		field{"vehicle_type", in.VehicleType},
		field{"rc_detail", in.RCDetail},
	)
}

// RegisterVehicle inserts a registration record before the vehicle marker
// line, or at the end of the file when there is none.
func (e *Engine) RegisterVehicle(ctx context.Context, in VehicleInput) (WriteResult, error) {
	c := e.begin("register_vehicle", "vehicle_number", in.VehicleNumber)

	if err := in.validate(); err != nil {
		return WriteResult{}, c.end(err)
	}

	rec := in.Record()
	if err := e.stores.Vehicles.InsertBeforeMarker(ctx, rec, e.marker); err != nil {
		return WriteResult{}, c.end(err)
	}

	res := newWriteResult(rec)
	c.log.Info("vehicle registered", "record_id", res.RecordID)
	return res, c.end(nil)
}

// Vehicles returns the projection of every vehicle record, in file order.
func (e *Engine) Vehicles(ctx context.Context) ([]schema.Projection, error) {
	c := e.begin("vehicles")
	out, err := e.vehicles(ctx, nil, false)
	if err != nil {
		return nil, c.end(err)
	}
	return out, c.end(nil)
}

// VehiclesMatching returns the vehicles whose number matches a glob pattern.
func (e *Engine) VehiclesMatching(ctx context.Context, pattern string) ([]schema.Projection, error) {
	c := e.begin("vehicles_matching", "pattern", pattern)

	m, err := querymatch.Compile(queryir.KeyGlob{Pattern: pattern})
	if err != nil {
		return nil, c.end(&ValidationError{Fields: []string{"match"}, Message: err.Error()})
	}

	out, err := e.vehicles(ctx, m, false)
	if err != nil {
		return nil, c.end(err)
	}
	c.found(len(out) > 0)
	return out, nil
}

// Vehicle returns the first vehicle registered under vehNo, which is
// trimmed the same way RegisterVehicle trims it.
// Vehicle numbers are not unique; later duplicates are ignored.
func (e *Engine) Vehicle(ctx context.Context, vehNo string) (schema.Projection, bool, error) {
	vehNo = strings.TrimSpace(vehNo)
	c := e.begin("vehicle", "vehicle_number", vehNo)

	if err := requireFields(field{"vehicle_number", vehNo}); err != nil {
		return nil, false, c.end(err)
	}

	out, err := e.vehicles(ctx, querymatch.MustCompile(queryir.Key(vehNo)), true)
	if err != nil {
		return nil, false, c.end(err)
	}
	if len(out) == 0 {
		c.found(false)
		return nil, false, nil
	}
	c.found(true)
	return out[0], true, nil
}

// vehicles scans the data section of the vehicles file, stopping at the
// first record whose text contains the marker. first stops after one match.
func (e *Engine) vehicles(ctx context.Context, match querymatch.Matcher, first bool) ([]schema.Projection, error) {
	out := []schema.Projection{}
	for rec, err := range e.stores.Vehicles.Scan(ctx) {
		if err != nil {
			return nil, err
		}
		if strings.Contains(atom.Serialize(rec), e.marker) {
			break
		}
		if _, keyIsList := rec.Head().(atom.List); keyIsList || rec.Head() == nil {
			continue
		}
		if match != nil && !match(rec) {
			continue
		}
		out = append(out, e.projectVehicle(rec))
		if first {
			break
		}
	}
	return out, nil
}

// projectVehicle uses the registration layout when the first value is the
// (name) list, and label/value pairs otherwise.
func (e *Engine) projectVehicle(rec atom.List) schema.Projection {
	tail := rec.Tail()
	name := schema.VehiclePairs
	if len(tail) > 0 {
		if _, ok := tail[0].(atom.List); ok {
			name = schema.VehicleRegistration
		}
	}
	sc, _ := e.schemas.Get(name)

	p := schema.Project(tail, sc)
	p["vehicle_number"] = schema.Normalize(rec.Head())
	return p
}
