// internal/parser/score_test.go
package parser

import "testing"

func TestScorePun(t *testing.T) {
	tests := []struct {
		name      string
		predicted string
		gold      string
		want      bool
	}{
		{"case and trailing period", "compôs uma ária que deu n'ária nenhures.", "Compôs uma ária que deu n'ária nenhures", true},
		{"quoted", `"O pão de queijo"`, "O pão de queijo", true},
		{"truncated substring", "ária que deu", "Compôs uma ária que deu n'ária nenhures", true},
		{"short substring rejected", "ária", "Compôs uma ária que deu n'ária nenhures", false},
		{"different phrase", "O gato subiu no telhado", "Compôs uma ária que deu n'ária nenhures", false},
		{"empty prediction", "", "qualquer", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ScorePun(tc.predicted, tc.gold); got != tc.want {
				t.Fatalf("ScorePun(%q, %q) = %v, want %v", tc.predicted, tc.gold, got, tc.want)
			}
		})
	}
}

func TestFold(t *testing.T) {
	if got := Fold("NÃO Ação"); got != "nao acao" {
		t.Fatalf("Fold = %q", got)
	}
}
