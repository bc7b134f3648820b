package monitor

import (
	"strings"
	"testing"

	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/types"
)

func TestCheckAlertsQuiet(t *testing.T) {
	stats := types.DashboardStats{
		QueueLength:     2,
		AvailableAgents: 3,
	}

	if alerts := CheckAlerts(stats, 10); len(alerts) != 0 {
		t.Errorf("expected no alerts, got %v", alerts)
	}
}

func TestCheckAlertsHighQueue(t *testing.T) {
	stats := types.DashboardStats{
		QueueLength:     15,
		AvailableAgents: 3,
	}

	alerts := CheckAlerts(stats, 10)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %v", alerts)
	}
	if !strings.Contains(alerts[0], "high queue length") {
		t.Errorf("unexpected alert %q", alerts[0])
	}
}

func TestCheckAlertsNoAgentsWithQueue(t *testing.T) {
	stats := types.DashboardStats{
		QueueLength:     1,
		AvailableAgents: 0,
	}

	alerts := CheckAlerts(stats, 10)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %v", alerts)
	}
	if !strings.Contains(alerts[0], "no available agents") {
		t.Errorf("unexpected alert %q", alerts[0])
	}
}

func TestCheckAlertsBothRulesFire(t *testing.T) {
	stats := types.DashboardStats{
		QueueLength:     20,
		AvailableAgents: 0,
	}

	if alerts := CheckAlerts(stats, 10); len(alerts) != 2 {
		t.Errorf("expected both alerts, got %v", alerts)
	}
}

func TestCheckAlertsThresholdBoundary(t *testing.T) {
	stats := types.DashboardStats{
		QueueLength:     10,
		AvailableAgents: 1,
	}

	// Alert fires strictly above the threshold
	if alerts := CheckAlerts(stats, 10); len(alerts) != 0 {
		t.Errorf("expected no alert at the threshold, got %v", alerts)
	}
}
