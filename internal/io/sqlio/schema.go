package sqlio

import "strings"

// schema is shared by SQLite and MySQL, {today} and {json} are replaced
// by dialect values.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS study (
  study VARCHAR(100) NOT NULL,
  is_open BOOLEAN NOT NULL DEFAULT TRUE,
  parent_study VARCHAR(100) NULL,
  create_date DATE NOT NULL DEFAULT {today},
  PRIMARY KEY (study)
)`,
	`CREATE TABLE IF NOT EXISTS participant (
  study VARCHAR(100) NOT NULL,
  participant_id VARCHAR(100) NOT NULL,
  create_date DATE NOT NULL DEFAULT {today},
  PRIMARY KEY (study, participant_id),
  FOREIGN KEY (study) REFERENCES study (study)
)`,
	`CREATE TABLE IF NOT EXISTS visit (
  study VARCHAR(100) NOT NULL,
  participant_id VARCHAR(100) NOT NULL,
  visit VARCHAR(50) NOT NULL,
  visit_week VARCHAR(50),
  create_date DATE NOT NULL DEFAULT {today},
  PRIMARY KEY (study, participant_id, visit),
  FOREIGN KEY (study, participant_id) REFERENCES participant (study, participant_id)
)`,
	`CREATE TABLE IF NOT EXISTS specimen (
  study VARCHAR(100) NOT NULL,
  participant_id VARCHAR(100) NOT NULL,
  visit VARCHAR(50) NOT NULL,
  draw_date DATE NOT NULL,
  aliquot_type VARCHAR(100) NOT NULL,
  volume DECIMAL(12,4) NOT NULL,
  unit VARCHAR(50),
  create_date DATE NOT NULL DEFAULT {today},
  UNIQUE (study, participant_id, draw_date, aliquot_type, volume),
  FOREIGN KEY (study, participant_id, visit)
    REFERENCES visit (study, participant_id, visit)
)`,
	`CREATE TABLE IF NOT EXISTS aliquot (
  study VARCHAR(100) NOT NULL,
  participant_id VARCHAR(100) NOT NULL,
  draw_date DATE NOT NULL,
  guid VARCHAR(100) NOT NULL,
  aliquot_type VARCHAR(100) NOT NULL,
  volume DECIMAL(12,4) NOT NULL,
  unit VARCHAR(50),
  create_date DATE NOT NULL DEFAULT {today},
  PRIMARY KEY (guid),
  FOREIGN KEY (study, participant_id, draw_date, aliquot_type, volume)
    REFERENCES specimen (study, participant_id, draw_date, aliquot_type, volume)
)`,
	`CREATE TABLE IF NOT EXISTS alt_id (
  init_study VARCHAR(100) NOT NULL,
  init_participant_id VARCHAR(100) NOT NULL,
  alt_ids_json {json},
  alt_study VARCHAR(100) NOT NULL,
  alt_participant_id VARCHAR(100),
  create_date DATE NOT NULL DEFAULT {today},
  UNIQUE (init_study, init_participant_id, alt_study)
)`,
	`CREATE TABLE IF NOT EXISTS general_classifier (
  study VARCHAR(100) NOT NULL,
  participant_id VARCHAR(100) NOT NULL,
  gender VARCHAR(50),
  hiv_subtype VARCHAR(50),
  fiebig_stage VARCHAR(50),
  fourth_gen_stage VARCHAR(50),
  is_thai BOOLEAN,
  risk VARCHAR(255),
  first_arv_regimen VARCHAR(255),
  create_date DATE NOT NULL DEFAULT {today},
  PRIMARY KEY (study, participant_id)
)`,
}

func (d dialect) schema() []string {
	r := strings.NewReplacer("{today}", d.today, "{json}", d.json)
	res := make([]string, len(schema))
	for i := range schema {
		res[i] = r.Replace(schema[i])
	}
	return res
}
