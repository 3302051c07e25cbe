package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/roach88/atomstore/internal/atom"
	"github.com/roach88/atomstore/internal/engine"
	"github.com/roach88/atomstore/internal/queryir"
)

// opFunc runs one operation. found is false for a not-found result.
type opFunc func(ctx context.Context, e *engine.Engine, args map[string]any) (result any, found bool, err error)

// ops maps scenario op names to engine operations.
var ops = map[string]opFunc{
	"register_vehicle": func(ctx context.Context, e *engine.Engine, args map[string]any) (any, bool, error) {
		res, err := e.RegisterVehicle(ctx, engine.VehicleInput{
			VehicleNumber: argString(args, "vehicle_number"),
			FullName:      argString(args, "full_name"),
			WalletAddress: argString(args, "wallet_address"),
			VehicleType:   argString(args, "vehicle_type"),
			RCDetail:      argString(args, "rc_detail"),
		})
		return written(res), true, err
	},
	"vehicles": func(ctx context.Context, e *engine.Engine, _ map[string]any) (any, bool, error) {
		v, err := e.Vehicles(ctx)
		return v, true, err
	},
	"vehicles_matching": func(ctx context.Context, e *engine.Engine, args map[string]any) (any, bool, error) {
		v, err := e.VehiclesMatching(ctx, argString(args, "pattern"))
		return v, true, err
	},
	"vehicle": func(ctx context.Context, e *engine.Engine, args map[string]any) (any, bool, error) {
		return optional(e.Vehicle(ctx, argString(args, "vehicle_number")))
	},
	"log_transaction": func(ctx context.Context, e *engine.Engine, args map[string]any) (any, bool, error) {
		res, err := e.LogTransaction(ctx, engine.TransactionInput{
			VehicleNumber: argString(args, "vehicle_number"),
			Time:          argString(args, "time"),
			Date:          argString(args, "date"),
			Name:          argString(args, "name"),
			Price:         argString(args, "price"),
		})
		return written(res), true, err
	},
	"transactions": func(ctx context.Context, e *engine.Engine, args map[string]any) (any, bool, error) {
		v, err := e.Transactions(ctx, argString(args, "vehicle_number"))
		return v, true, err
	},
	"location_details": func(ctx context.Context, e *engine.Engine, args map[string]any) (any, bool, error) {
		return optional(e.LocationDetails(ctx, argString(args, "place")))
	},
	"location_coords": func(ctx context.Context, e *engine.Engine, args map[string]any) (any, bool, error) {
		coords, err := e.LocationCoords(ctx, argString(args, "place"))
		return coords, len(coords) > 0, err
	},
	"query_by_key": func(ctx context.Context, e *engine.Engine, args map[string]any) (any, bool, error) {
		d, err := engine.ParseDomain(argString(args, "domain"))
		if err != nil {
			return nil, false, &engine.ValidationError{Fields: []string{"domain"}, Message: err.Error()}
		}
		rec, ok, err := e.QueryByKey(ctx, d, argString(args, "key"))
		if !ok || err != nil {
			return nil, ok, err
		}
		return atom.ToJSON(rec), true, nil
	},
	"query_all_matching": func(ctx context.Context, e *engine.Engine, args map[string]any) (any, bool, error) {
		d, err := engine.ParseDomain(argString(args, "domain"))
		if err != nil {
			return nil, false, &engine.ValidationError{Fields: []string{"domain"}, Message: err.Error()}
		}
		var p queryir.Predicate = queryir.Key(argString(args, "key"))
		if _, ok := args["pattern"]; ok {
			p = queryir.KeyGlob{Pattern: argString(args, "pattern")}
		}
		recs, err := e.QueryAllMatching(ctx, d, p)
		if err != nil {
			return nil, false, err
		}
		raw := make([]any, len(recs))
		for i, rec := range recs {
			raw[i] = atom.ToJSON(rec)
		}
		return raw, true, nil
	},
}

// Ops returns the supported op names, sorted.
func Ops() []string {
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// written drops the record id, which only restates the record.
func written(res engine.WriteResult) any {
	if res.Record == "" {
		return nil
	}
	return map[string]any{"record": res.Record}
}

func optional[T any](v T, ok bool, err error) (any, bool, error) {
	if !ok || err != nil {
		return nil, ok, err
	}
	return v, true, nil
}

// argString renders a YAML scalar as the string an operation expects.
// Missing and null args are "".
func argString(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// generic converts v to the plain JSON value tree (maps, slices, float64,
// string, bool) that scenario expectations are compared against.
func generic(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
