package query

import (
	"testing"
)

func TestConditionLiteral(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
		want string
	}{
		{
			name: "equals",
			cond: Condition{Column: ColCollName, Operator: OperatorEquals, Value: "/zone/home"},
			want: "= '/zone/home'",
		},
		{
			name: "like",
			cond: Condition{Column: ColCollName, Operator: OperatorLike, Value: "/zone/home%"},
			want: "like '/zone/home%'",
		},
		{
			name: "embedded quote doubled",
			cond: Condition{Column: ColMetaObjAttrValue, Operator: OperatorEquals, Value: "o'brien"},
			want: "= 'o''brien'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cond.Literal(); got != tt.want {
				t.Errorf("Literal() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddConditions_CapacityExceeded(t *testing.T) {
	req := NewRequest(10, ColCollName)

	conds := make([]Condition, MaxConditions)
	for i := range conds {
		conds[i] = Condition{Column: ColCollName, Operator: OperatorEquals, Value: "x"}
	}
	if err := req.AddConditions(conds...); err != nil {
		t.Fatalf("AddConditions at capacity failed: %v", err)
	}

	err := req.AddConditions(Condition{Column: ColCollName, Operator: OperatorEquals, Value: "y"})
	if err == nil {
		t.Fatal("AddConditions past capacity succeeded, want error")
	}
	if len(req.Conditions) != MaxConditions {
		t.Errorf("len(Conditions) = %d, want %d", len(req.Conditions), MaxConditions)
	}
}
