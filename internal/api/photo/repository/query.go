package photoRepository

const (
	queryCreatePhoto = `
		INSERT INTO wall_photos (
			id,
			name,
			image_url,
			width,
			height,
			created_at
		) VALUES (
			:id,
			:name,
			:image_url,
			:width,
			:height,
			:created_at
		)
	`

	queryGetPhotoByID = `
		SELECT
			id,
			name,
			image_url,
			width,
			height,
			created_at
		FROM wall_photos
		WHERE id = :id
	`

	queryGetAllPhotos = `
		SELECT
			id,
			name,
			image_url,
			width,
			height,
			created_at
		FROM wall_photos
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountAllPhotos = `
		SELECT COUNT(*) FROM wall_photos
	`

	queryDeletePhoto = `
		DELETE FROM wall_photos
		WHERE id = :id
	`

	queryCreateDetectedHold = `
		INSERT INTO detected_holds (
			id,
			photo_id,
			polygon,
			center_x,
			center_y,
			dominant_color,
			class,
			confidence,
			created_at
		) VALUES (
			:id,
			:photo_id,
			:polygon,
			:center_x,
			:center_y,
			:dominant_color,
			:class,
			:confidence,
			:created_at
		)
	`

	queryGetDetectedHoldByID = `
		SELECT
			id,
			photo_id,
			polygon,
			center_x,
			center_y,
			dominant_color,
			class,
			confidence,
			created_at
		FROM detected_holds
		WHERE id = :id
	`

	queryGetDetectedHoldsByPhoto = `
		SELECT
			id,
			photo_id,
			polygon,
			center_x,
			center_y,
			dominant_color,
			class,
			confidence,
			created_at
		FROM detected_holds
		WHERE photo_id = :photo_id
		ORDER BY created_at, id
	`

	queryDeleteDetectedHoldsByPhoto = `
		DELETE FROM detected_holds
		WHERE photo_id = :photo_id
	`
)
