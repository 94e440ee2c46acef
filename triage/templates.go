package triage

// Builtin symptom templates. These are the deployment-time catalog: the
// registry is seeded from this list at process start and never mutated.
//
// Red-flag expressions guard every optional field with has() so that a
// missing answer reads as "not triggered" rather than an evaluation error.

func defaultOutput() []OutputSection {
	return []OutputSection{
		{Name: "title", Label: "Title"},
		{Name: "summary", Label: "Summary"},
		{Name: "watch_for", Label: "Watch for"},
		{Name: "guidance", Label: "What you can do"},
		{Name: "doctor_prep", Label: "Preparing for your visit"},
		{Name: "safety_reminder", Label: "Safety reminder"},
	}
}

// BuiltinTemplates returns the seeded symptom domains in catalog order.
func BuiltinTemplates() []*Template {
	return []*Template{
		chestPainTemplate(),
		feverAdultTemplate(),
		feverPediatricTemplate(),
		abdominalPainTemplate(),
		headacheTemplate(),
		shortnessOfBreathTemplate(),
		medicationSideEffectsTemplate(),
	}
}

// NewBuiltinRegistry builds a registry seeded with every builtin template.
func NewBuiltinRegistry() (*Registry, error) {
	return NewRegistry(BuiltinTemplates()...)
}

func chestPainTemplate() *Template {
	return &Template{
		ID:   "chest_pain",
		Name: "Chest Pain",
		Questions: []Question{
			{
				ID: "pain_severity", Label: "How severe is the pain right now, from 1 to 10?",
				Kind: KindScale, Required: true,
			},
			{
				ID: "pain_quality", Label: "Which best describes the pain?",
				Kind: KindSingleSelect, Required: true,
				Options: []string{"Pressure/Crushing", "Tightness", "Sharp/Stabbing", "Burning", "Dull ache"},
			},
			{
				ID: "pain_radiation", Label: "Does the pain spread anywhere?",
				Kind: KindMultiSelect,
				Options: []string{"Left arm", "Right arm", "Jaw", "Back", "Neck", "No spreading"},
			},
			{
				ID: "associated_symptoms", Label: "Are you noticing any of these along with the pain?",
				Kind: KindMultiSelect,
				Options: []string{"Sweating", "Shortness of breath", "Nausea", "Dizziness", "Fainting", "Palpitations", "None of these"},
			},
			{
				ID: "cardiac_history", Label: "Do you have a history of heart disease?",
				Kind: KindSingleSelect,
				Options: []string{"Yes - heart disease", "Yes - prior heart attack", "No", "Not sure"},
			},
			{
				ID: "risk_factors", Label: "Do any of these apply to you?",
				Kind: KindMultiSelect,
				Options: []string{"Diabetes", "High blood pressure", "High cholesterol", "Smoking", "Family history of heart disease", "None"},
			},
			{
				ID: "sharp_pain_trigger", Label: "Does the sharp pain change when you breathe or press on the spot?",
				Kind: KindSingleSelect,
				Options: []string{"Worse with breathing", "Worse when pressed", "No change"},
				ShowIf:  &ShowIf{Field: "pain_quality", Equals: "Sharp/Stabbing"},
			},
			{
				ID: "other_details", Label: "Anything else you want to mention about the pain?",
				Kind: KindFreeText,
			},
		},
		RedFlags: []RedFlag{
			{
				ID:          "severe_pressure",
				Description: "Severe pressure or crushing chest pain - possible heart attack",
				Expression:  `has(answers.pain_severity) && answers.pain_severity >= 8.0 && has(answers.pain_quality) && answers.pain_quality == 'Pressure/Crushing'`,
				Action:      ActionERNow,
			},
			{
				ID:          "pain_with_fainting",
				Description: "Chest pain with fainting or near-fainting",
				Expression:  `has(answers.associated_symptoms) && 'Fainting' in answers.associated_symptoms`,
				Action:      ActionERNow,
			},
			{
				ID:          "known_cardiac_disease",
				Description: "Chest pain in someone with known heart disease",
				Expression:  `has(answers.cardiac_history) && answers.cardiac_history.startsWith('Yes') && has(answers.pain_severity) && answers.pain_severity >= 4.0`,
				Action:      ActionUrgentCare,
			},
			{
				ID:          "risk_factor_burden",
				Description: "Multiple cardiovascular risk factors alongside chest pain",
				Expression:  `has(answers.risk_factors) && !('None' in answers.risk_factors) && size(answers.risk_factors) >= 2`,
				Action:      ActionCallClinic,
			},
			{
				ID:          "burning_quality",
				Description: "Burning-quality pain, which often points to reflux rather than the heart",
				Expression:  `has(answers.pain_quality) && answers.pain_quality == 'Burning' && has(answers.pain_severity) && answers.pain_severity <= 5.0`,
				Action:      ActionAdviceOnly,
			},
		},
		Output: defaultOutput(),
	}
}

func feverAdultTemplate() *Template {
	return &Template{
		ID:   "fever_adult",
		Name: "Fever (Adult)",
		Questions: []Question{
			{
				ID: "temp_reading", Label: "What is the highest temperature you've measured (°F)?",
				Kind: KindNumber, Required: true,
			},
			{
				ID: "duration_days", Label: "How many days have you had the fever?",
				Kind: KindNumber, Required: true,
			},
			{
				ID: "symptoms", Label: "Do you have any of these along with the fever?",
				Kind: KindMultiSelect,
				Options: []string{"Stiff neck", "Severe headache", "Confusion", "Difficulty breathing", "Rash", "None of these"},
			},
			{
				ID: "immune_compromised", Label: "Do you have a weakened immune system (chemotherapy, transplant, immune condition)?",
				Kind: KindSingleSelect,
				Options: []string{"Yes", "No", "Not sure"},
			},
			{
				ID: "recent_travel", Label: "Have you traveled internationally in the last month?",
				Kind: KindSingleSelect,
				Options: []string{"Yes", "No"},
			},
			{
				ID: "travel_where", Label: "Where did you travel?",
				Kind:   KindFreeText,
				ShowIf: &ShowIf{Field: "recent_travel", Equals: "Yes"},
			},
			{
				ID: "meds_taken", Label: "What have you taken for the fever, if anything?",
				Kind: KindFreeText,
			},
		},
		RedFlags: []RedFlag{
			{
				ID:          "very_high_fever",
				Description: "Temperature of 104°F or higher",
				Expression:  `has(answers.temp_reading) && answers.temp_reading >= 104.0`,
				Action:      ActionERNow,
			},
			{
				ID:          "neuro_signs",
				Description: "Fever with stiff neck or confusion",
				Expression:  `has(answers.symptoms) && ('Stiff neck' in answers.symptoms || 'Confusion' in answers.symptoms)`,
				Action:      ActionERNow,
			},
			{
				ID:          "immunocompromised_fever",
				Description: "Fever in someone with a weakened immune system",
				Expression:  `has(answers.immune_compromised) && answers.immune_compromised == 'Yes' && has(answers.temp_reading) && answers.temp_reading >= 100.4`,
				Action:      ActionUrgentCare,
			},
			{
				ID:          "prolonged_fever",
				Description: "Fever lasting three days or more",
				Expression:  `has(answers.duration_days) && answers.duration_days >= 3.0`,
				Action:      ActionCallClinic,
			},
			{
				ID:          "travel_fever",
				Description: "Fever after recent international travel",
				Expression:  `has(answers.recent_travel) && answers.recent_travel == 'Yes'`,
				Action:      ActionCallClinic,
			},
		},
		Output: defaultOutput(),
	}
}

func feverPediatricTemplate() *Template {
	return &Template{
		ID:   "fever_pediatric",
		Name: "Fever (Child)",
		Questions: []Question{
			{
				ID: "child_age_months", Label: "How old is your child, in months?",
				Kind: KindNumber, Required: true,
			},
			{
				ID: "temp_reading", Label: "What is the highest temperature you've measured (°F)?",
				Kind: KindNumber, Required: true,
			},
			{
				ID: "behavior", Label: "How is your child acting?",
				Kind: KindSingleSelect, Required: true,
				Options: []string{"Alert and playful", "Sleepy but wakes easily", "Hard to wake", "Inconsolable crying"},
			},
			{
				ID: "hydration", Label: "How is your child drinking?",
				Kind: KindSingleSelect,
				Options: []string{"Drinking normally", "Drinking less than usual", "Refusing fluids or few wet diapers"},
			},
			{
				ID: "rash_present", Label: "Does your child have a rash?",
				Kind: KindSingleSelect,
				Options: []string{"Yes", "No"},
			},
			{
				ID: "rash_description", Label: "Describe the rash (where it is, whether it fades when pressed).",
				Kind:   KindFreeText,
				ShowIf: &ShowIf{Field: "rash_present", Equals: "Yes"},
			},
		},
		RedFlags: []RedFlag{
			{
				ID:          "infant_fever",
				Description: "Any fever in an infant under 3 months old",
				Expression:  `has(answers.child_age_months) && answers.child_age_months < 3.0 && has(answers.temp_reading) && answers.temp_reading >= 100.4`,
				Action:      ActionERNow,
			},
			{
				ID:          "altered_behavior",
				Description: "Child is hard to wake or inconsolable",
				Expression:  `has(answers.behavior) && (answers.behavior == 'Hard to wake' || answers.behavior == 'Inconsolable crying')`,
				Action:      ActionERNow,
			},
			{
				ID:          "dehydration_risk",
				Description: "Refusing fluids or few wet diapers - dehydration risk",
				Expression:  `has(answers.hydration) && answers.hydration == 'Refusing fluids or few wet diapers'`,
				Action:      ActionUrgentCare,
			},
			{
				ID:          "fever_with_rash",
				Description: "Fever with a new rash",
				Expression:  `has(answers.rash_present) && answers.rash_present == 'Yes'`,
				Action:      ActionCallClinic,
			},
		},
		Output: defaultOutput(),
	}
}

func abdominalPainTemplate() *Template {
	return &Template{
		ID:   "abdominal_pain",
		Name: "Abdominal Pain",
		Questions: []Question{
			{
				ID: "pain_location", Label: "Where is the pain centered?",
				Kind: KindSingleSelect, Required: true,
				Options: []string{"Upper right", "Upper left", "Lower right", "Lower left", "Around the navel", "All over"},
			},
			{
				ID: "pain_severity", Label: "How severe is the pain, from 1 to 10?",
				Kind: KindScale, Required: true,
			},
			{
				ID: "duration_hours", Label: "How many hours has the pain lasted?",
				Kind: KindNumber,
			},
			{
				ID: "symptoms", Label: "Do you have any of these with the pain?",
				Kind: KindMultiSelect,
				Options: []string{"Vomiting blood", "Black or bloody stools", "Fever", "Persistent vomiting", "Unable to pass stool or gas", "None of these"},
			},
			{
				ID: "pregnancy_possible", Label: "Is there any chance you are pregnant?",
				Kind: KindSingleSelect,
				Options: []string{"Yes", "No", "Not applicable"},
			},
		},
		RedFlags: []RedFlag{
			{
				ID:          "gi_bleeding",
				Description: "Signs of internal bleeding (vomiting blood or black/bloody stools)",
				Expression:  `has(answers.symptoms) && ('Vomiting blood' in answers.symptoms || 'Black or bloody stools' in answers.symptoms)`,
				Action:      ActionERNow,
			},
			{
				ID:          "possible_ectopic",
				Description: "Severe abdominal pain with a possible pregnancy",
				Expression:  `has(answers.pregnancy_possible) && answers.pregnancy_possible == 'Yes' && has(answers.pain_severity) && answers.pain_severity >= 7.0`,
				Action:      ActionERNow,
			},
			{
				ID:          "possible_appendicitis",
				Description: "Lower-right pain with fever - possible appendicitis",
				Expression:  `has(answers.pain_location) && answers.pain_location == 'Lower right' && has(answers.symptoms) && 'Fever' in answers.symptoms`,
				Action:      ActionUrgentCare,
			},
			{
				ID:          "obstruction_signs",
				Description: "Unable to pass stool or gas with persistent vomiting",
				Expression:  `has(answers.symptoms) && 'Unable to pass stool or gas' in answers.symptoms && 'Persistent vomiting' in answers.symptoms`,
				Action:      ActionUrgentCare,
			},
			{
				ID:          "prolonged_pain",
				Description: "Abdominal pain lasting more than 48 hours",
				Expression:  `has(answers.duration_hours) && answers.duration_hours >= 48.0`,
				Action:      ActionCallClinic,
			},
		},
		Output: defaultOutput(),
	}
}

func headacheTemplate() *Template {
	return &Template{
		ID:   "headache",
		Name: "Headache",
		Questions: []Question{
			{
				ID: "onset", Label: "How did the headache start?",
				Kind: KindSingleSelect, Required: true,
				Options: []string{"Suddenly - seconds to minutes", "Gradually over hours", "It has come and gone for days"},
			},
			{
				ID: "severity", Label: "How severe is it, from 1 to 10?",
				Kind: KindScale, Required: true,
			},
			{
				ID: "worst_ever", Label: "Is this the worst headache of your life?",
				Kind: KindSingleSelect,
				Options: []string{"Yes", "No"},
			},
			{
				ID: "neuro_symptoms", Label: "Do you have any of these with the headache?",
				Kind: KindMultiSelect,
				Options: []string{"Weakness on one side", "Slurred speech", "Vision loss", "Neck stiffness with fever", "None of these"},
			},
			{
				ID: "head_injury", Label: "Did you hit your head in the last few days?",
				Kind: KindSingleSelect,
				Options: []string{"Yes", "No"},
			},
			{
				ID: "injury_details", Label: "Describe how the injury happened.",
				Kind:   KindFreeText,
				ShowIf: &ShowIf{Field: "head_injury", Equals: "Yes"},
			},
		},
		RedFlags: []RedFlag{
			{
				ID:          "thunderclap",
				Description: "Sudden worst-ever headache (thunderclap onset)",
				Expression:  `has(answers.onset) && answers.onset == 'Suddenly - seconds to minutes' && has(answers.worst_ever) && answers.worst_ever == 'Yes'`,
				Action:      ActionERNow,
			},
			{
				ID:          "neuro_deficit",
				Description: "Headache with weakness, slurred speech, vision loss, or stiff neck with fever",
				Expression:  `has(answers.neuro_symptoms) && size(answers.neuro_symptoms) >= 1 && !('None of these' in answers.neuro_symptoms)`,
				Action:      ActionERNow,
			},
			{
				ID:          "post_injury",
				Description: "Headache after a recent head injury",
				Expression:  `has(answers.head_injury) && answers.head_injury == 'Yes'`,
				Action:      ActionUrgentCare,
			},
			{
				ID:          "recurring_severe",
				Description: "Recurring headaches reaching moderate-to-severe intensity",
				Expression:  `has(answers.onset) && answers.onset == 'It has come and gone for days' && has(answers.severity) && answers.severity >= 6.0`,
				Action:      ActionCallClinic,
			},
		},
		Output: defaultOutput(),
	}
}

func shortnessOfBreathTemplate() *Template {
	return &Template{
		ID:   "shortness_of_breath",
		Name: "Shortness of Breath",
		Questions: []Question{
			{
				ID: "onset", Label: "Did the breathing trouble start suddenly or gradually?",
				Kind: KindSingleSelect, Required: true,
				Options: []string{"Suddenly", "Gradually"},
			},
			{
				ID: "at_rest", Label: "Are you short of breath even while resting?",
				Kind: KindSingleSelect, Required: true,
				Options: []string{"Yes", "No"},
			},
			{
				ID: "speaking", Label: "How well can you speak right now?",
				Kind: KindSingleSelect,
				Options: []string{"Full sentences", "Short phrases only", "Single words only"},
			},
			{
				ID: "symptoms", Label: "Do you have any of these as well?",
				Kind: KindMultiSelect,
				Options: []string{"Chest pain", "Blue lips or face", "Coughing up blood", "Leg swelling", "Wheezing", "None of these"},
			},
			{
				ID: "history", Label: "Do any of these apply to you?",
				Kind: KindMultiSelect,
				Options: []string{"Asthma", "COPD", "Heart failure", "Prior blood clot", "None"},
			},
		},
		RedFlags: []RedFlag{
			{
				ID:          "severe_hypoxia_signs",
				Description: "Blue lips, coughing up blood, or only able to speak single words",
				Expression:  `(has(answers.symptoms) && ('Blue lips or face' in answers.symptoms || 'Coughing up blood' in answers.symptoms)) || (has(answers.speaking) && answers.speaking == 'Single words only')`,
				Action:      ActionERNow,
			},
			{
				ID:          "sudden_rest_dyspnea",
				Description: "Sudden shortness of breath at rest",
				Expression:  `has(answers.onset) && answers.onset == 'Suddenly' && has(answers.at_rest) && answers.at_rest == 'Yes'`,
				Action:      ActionERNow,
			},
			{
				ID:          "limited_speech",
				Description: "Breathlessness limiting speech to short phrases",
				Expression:  `has(answers.speaking) && answers.speaking == 'Short phrases only'`,
				Action:      ActionUrgentCare,
			},
			{
				ID:          "asthma_flare",
				Description: "Wheezing in someone with known asthma or COPD",
				Expression:  `has(answers.symptoms) && 'Wheezing' in answers.symptoms && has(answers.history) && ('Asthma' in answers.history || 'COPD' in answers.history)`,
				Action:      ActionCallClinic,
			},
		},
		Output: defaultOutput(),
	}
}

func medicationSideEffectsTemplate() *Template {
	return &Template{
		ID:   "medication_side_effects",
		Name: "Medication Side Effects",
		Questions: []Question{
			{
				ID: "medication_name", Label: "Which medication do you think is causing the problem?",
				Kind: KindFreeText, Required: true,
			},
			{
				ID: "reaction", Label: "What are you experiencing?",
				Kind: KindMultiSelect, Required: true,
				Options: []string{"Rash or hives", "Swelling of face or throat", "Trouble breathing", "Nausea or vomiting", "Dizziness", "Other"},
			},
			{
				ID: "reaction_other", Label: "Describe what you're experiencing.",
				Kind:   KindFreeText,
				ShowIf: &ShowIf{Field: "reaction", Equals: "Other"},
			},
			{
				ID: "started_when", Label: "When did the reaction start?",
				Kind: KindSingleSelect,
				Options: []string{"Within the last hour", "Earlier today", "This week", "Longer ago"},
			},
			{
				ID: "stopped_taking", Label: "Have you stopped taking the medication?",
				Kind: KindSingleSelect,
				Options: []string{"Yes", "No"},
			},
		},
		RedFlags: []RedFlag{
			{
				ID:          "anaphylaxis_signs",
				Description: "Swelling of the face or throat, or trouble breathing - possible severe allergic reaction",
				Expression:  `has(answers.reaction) && ('Swelling of face or throat' in answers.reaction || 'Trouble breathing' in answers.reaction)`,
				Action:      ActionERNow,
			},
			{
				ID:          "acute_hives",
				Description: "Rash or hives starting within the last hour",
				Expression:  `has(answers.reaction) && 'Rash or hives' in answers.reaction && has(answers.started_when) && answers.started_when == 'Within the last hour'`,
				Action:      ActionUrgentCare,
			},
			{
				ID:          "ongoing_reaction",
				Description: "Reaction continuing while still taking the medication",
				Expression:  `has(answers.stopped_taking) && answers.stopped_taking == 'No' && has(answers.reaction) && !('Other' in answers.reaction && size(answers.reaction) == 1)`,
				Action:      ActionCallClinic,
			},
		},
		Output: defaultOutput(),
	}
}
