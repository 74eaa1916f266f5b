package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univ-admin-api/internal/models"
)

func TestLoadEvents(t *testing.T) {
	input := `id;subject;type;teacher;formation;level;group;room;day;start_time;end_time;students;is_validated;has_reservation
E1;Algorithmique;COURS;Dr. Amrani;Informatique;L1;G1;Amphi A;Lundi;08:00;09:30;120;true;false
;Réseaux;td; Dr. Benali ;Informatique;L2;G2;Salle 101;Mardi; 10:00;11:30;30;false;false
`
	events, err := LoadEvents(strings.NewReader(input), Options{Comma: ';'})
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "E1", events[0].ID)
	assert.Equal(t, models.EventCours, events[0].Type)
	assert.Equal(t, 120, events[0].Students)
	assert.True(t, events[0].Validated)

	assert.Equal(t, "row-3", events[1].ID)
	assert.Equal(t, "Dr. Benali", events[1].Teacher)
	assert.Equal(t, "10:00", events[1].StartTime)
}

func TestLoadEventsDuplicateID(t *testing.T) {
	input := "id,room,day,start_time,end_time\nE1,A,Lundi,08:00,09:00\nE1,B,Lundi,08:00,09:00\n"
	_, err := LoadEvents(strings.NewReader(input), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate id "E1"`)
}

func TestLoadEventsEmpty(t *testing.T) {
	events, err := LoadEvents(strings.NewReader(""), Options{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestLoadRooms(t *testing.T) {
	capacities, err := LoadRooms(strings.NewReader("name,capacity\nAmphi A,200\nSalle 101,35\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Amphi A": 200, "Salle 101": 35}, capacities)

	_, err = LoadRooms(strings.NewReader("name,capacity\nLabo,0\n"), Options{})
	assert.Error(t, err)
}

func TestLoadTeachersRequiresID(t *testing.T) {
	teachers, err := LoadTeachers(strings.NewReader("id,email,full_name,grade,active\nT1,a@univ.dz,Amina,Professeur,true\n"), Options{})
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "Professeur", teachers[0].Grade)

	_, err = LoadTeachers(strings.NewReader("id,email,full_name,grade,active\n,b@univ.dz,Bilal,Assistant,true\n"), Options{})
	assert.Error(t, err)
}

func TestLoadAssignmentsDerivesTotalHours(t *testing.T) {
	input := `id,teacher_id,module_id,module_name,atom_type,target_type,target_id,target_name,target_capacity,semester,hours_per_week,total_weeks,total_hours
A1,T1,M1,Analyse,Cours,section,S1,Section A,120,S1,3,14,0
A2,T1,M2,Algèbre,td,GROUP,G1,Groupe 1,30,S1,1.5,14,20
`
	assignments, err := LoadAssignments(strings.NewReader(input), Options{})
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	assert.Equal(t, models.AtomCours, assignments[0].AtomType)
	assert.Equal(t, models.AudienceSection, assignments[0].Type)
	assert.Equal(t, "S1", assignments[0].TargetAudience.ID)
	assert.InDelta(t, 42.0, assignments[0].TotalHours, 0.001)

	assert.Equal(t, models.AudienceGroup, assignments[1].Type)
	assert.InDelta(t, 20.0, assignments[1].TotalHours, 0.001)
}
