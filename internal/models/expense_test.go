package models

import (
	"reflect"
	"testing"
)

func TestParticipantNames(t *testing.T) {
	tests := []struct {
		name    string
		expense Expense
		want    []string
	}{
		{
			name: "payer and involved",
			expense: Expense{
				Payer:    "alice",
				Involved: []string{"alice", "bob"},
			},
			want: []string{"alice", "bob"},
		},
		{
			name: "beneficiary and receiver included",
			expense: Expense{
				Payer:       "alice",
				Beneficiary: "carol",
				Receiver:    "dave",
				Involved:    []string{"bob"},
			},
			want: []string{"alice", "bob", "carol", "dave"},
		},
		{
			name: "duplicates collapse",
			expense: Expense{
				Payer:       "alice",
				Beneficiary: "alice",
				Involved:    []string{"alice", "alice", "bob"},
			},
			want: []string{"alice", "bob"},
		},
		{
			name: "blank names dropped",
			expense: Expense{
				Payer:    "alice",
				Involved: []string{"", "bob"},
			},
			want: []string{"alice", "bob"},
		},
		{
			name:    "empty entry",
			expense: Expense{},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.expense.ParticipantNames()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParticipantNames() = %v, want %v", got, tt.want)
			}
		})
	}
}
