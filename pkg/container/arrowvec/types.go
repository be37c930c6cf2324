// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package arrowvec

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/container/types"
)

// ToArrowType maps an engine type onto the Arrow type used for interchange.
func ToArrowType(typ types.Type) (arrow.DataType, error) {
	switch typ.Oid {
	case types.T_bool:
		return arrow.FixedWidthTypes.Boolean, nil
	case types.T_int8:
		return arrow.PrimitiveTypes.Int8, nil
	case types.T_int16:
		return arrow.PrimitiveTypes.Int16, nil
	case types.T_int32:
		return arrow.PrimitiveTypes.Int32, nil
	case types.T_int64:
		return arrow.PrimitiveTypes.Int64, nil
	case types.T_float32:
		return arrow.PrimitiveTypes.Float32, nil
	case types.T_float64:
		return arrow.PrimitiveTypes.Float64, nil
	case types.T_decimal:
		return &arrow.Decimal128Type{Precision: typ.Width, Scale: typ.Scale}, nil
	case types.T_varchar:
		return arrow.BinaryTypes.String, nil
	case types.T_binary:
		return arrow.BinaryTypes.Binary, nil
	case types.T_interval:
		return arrow.FixedWidthTypes.MonthDayNanoInterval, nil
	case types.T_array:
		if typ.Elem == nil {
			return nil, moerr.NewUnsupportedLayoutNoCtx(typ.String())
		}
		elem, err := ToArrowType(*typ.Elem)
		if err != nil {
			return nil, err
		}
		return arrow.ListOf(elem), nil
	case types.T_struct:
		fields, err := ToArrowFields(typ.Fields)
		if err != nil {
			return nil, err
		}
		return arrow.StructOf(fields...), nil
	}
	return nil, moerr.NewNotSupportedNoCtx("arrow type for %s", typ)
}

func ToArrowFields(fields []types.Field) ([]arrow.Field, error) {
	ret := make([]arrow.Field, len(fields))
	for i, f := range fields {
		dt, err := ToArrowType(f.Type)
		if err != nil {
			return nil, err
		}
		ret[i] = arrow.Field{Name: f.Name, Type: dt, Nullable: f.Nullable}
	}
	return ret, nil
}

// ToArrowSchema builds the schema of a record holding fields.
func ToArrowSchema(fields []types.Field) (*arrow.Schema, error) {
	afs, err := ToArrowFields(fields)
	if err != nil {
		return nil, err
	}
	return arrow.NewSchema(afs, nil), nil
}

// FromArrowType maps an Arrow type back onto the engine type tree.
func FromArrowType(dt arrow.DataType) (types.Type, error) {
	switch dt.ID() {
	case arrow.BOOL:
		return types.T_bool.ToType(), nil
	case arrow.INT8:
		return types.T_int8.ToType(), nil
	case arrow.INT16:
		return types.T_int16.ToType(), nil
	case arrow.INT32:
		return types.T_int32.ToType(), nil
	case arrow.INT64:
		return types.T_int64.ToType(), nil
	case arrow.FLOAT32:
		return types.T_float32.ToType(), nil
	case arrow.FLOAT64:
		return types.T_float64.ToType(), nil
	case arrow.DECIMAL128:
		d := dt.(*arrow.Decimal128Type)
		return types.NewDecimal(d.Precision, d.Scale), nil
	case arrow.STRING:
		return types.T_varchar.ToType(), nil
	case arrow.BINARY:
		return types.T_binary.ToType(), nil
	case arrow.INTERVAL_MONTH_DAY_NANO:
		return types.T_interval.ToType(), nil
	case arrow.LIST:
		elem, err := FromArrowType(dt.(*arrow.ListType).Elem())
		if err != nil {
			return types.Type{}, err
		}
		return types.NewArray(elem), nil
	case arrow.STRUCT:
		fields, err := FromArrowFields(dt.(*arrow.StructType).Fields())
		if err != nil {
			return types.Type{}, err
		}
		return types.NewStruct(fields...), nil
	}
	return types.Type{}, moerr.NewNotSupportedNoCtx("arrow type %s", dt)
}

func FromArrowFields(afs []arrow.Field) ([]types.Field, error) {
	fields := make([]types.Field, len(afs))
	for i, af := range afs {
		typ, err := FromArrowType(af.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = types.NewField(af.Name, typ, af.Nullable)
	}
	return fields, nil
}
